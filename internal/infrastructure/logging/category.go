package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	IO              Category = "IO"
	Internal        Category = "Internal"
	Socket          Category = "Socket"
	Room            Category = "Room"
	Chat            Category = "Chat"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Room
	Join        SubCategory = "Join"
	Advance     SubCategory = "Advance"
	Performance SubCategory = "Performance"
	Moderation  SubCategory = "Moderation"
	Greeting    SubCategory = "Greeting"

	// RequestResponse
	Api SubCategory = "Api"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	SessionID    ExtraKey = "SessionID"
	RoomSlug     ExtraKey = "Room"
	UserID       ExtraKey = "UserID"
	Username     ExtraKey = "Username"
	HistoryID    ExtraKey = "HistoryID"
	ChatID       ExtraKey = "ChatID"
	Woots        ExtraKey = "Woots"
	Mehs         ExtraKey = "Mehs"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	BodySize     ExtraKey = "BodySize"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	ErrorMessage ExtraKey = "ErrorMessage"
)
