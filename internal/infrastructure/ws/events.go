package ws

import "time"

const (
	ChatReceived     = "chat.received"
	ChatDeleted      = "chat.deleted"
	TrackAdvanced    = "track.advanced"
	PerformanceEnded = "performance.ended"
	UserJoined       = "user.joined"
	UserLeft         = "user.left"
	VoteCast         = "vote.cast"
	RoomJoined       = "room.joined"
)

// WSMessage is one frame of the live feed.
type WSMessage struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data any    `json:"data"`
}

type ChatPayload struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

type ChatDeletedPayload struct {
	ID          string `json:"id"`
	ModeratorID int64  `json:"moderatorId"`
}

type TrackPayload struct {
	HistoryID string `json:"historyId"`
	DJID      int64  `json:"djId"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Duration  int    `json:"duration"`
}

type TallyPayload struct {
	HistoryID string `json:"historyId"`
	Woots     int    `json:"woots"`
	Mehs      int    `json:"mehs"`
}

type RoomPayload struct {
	Name       string `json:"name"`
	Population int    `json:"population"`
}

type UserPayload struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username,omitempty"`
}

type VotePayload struct {
	UserID    int64 `json:"userId"`
	Direction int   `json:"direction"`
}

func NewChatReceived(room, id, content string, userID int64, username string, at time.Time) *WSMessage {
	return &WSMessage{
		Type: ChatReceived,
		Room: room,
		Data: ChatPayload{
			ID:        id,
			Content:   content,
			UserID:    userID,
			Username:  username,
			Timestamp: at.UTC().Format(time.RFC3339),
		},
	}
}

func NewChatDeleted(room, id string, moderatorID int64) *WSMessage {
	return &WSMessage{
		Type: ChatDeleted,
		Room: room,
		Data: ChatDeletedPayload{ID: id, ModeratorID: moderatorID},
	}
}
