package rooms

import "time"

type chatResponse struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type playResponse struct {
	HistoryID string    `json:"historyId"`
	DJID      int64     `json:"djId"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Woots     int       `json:"woots"`
	Mehs      int       `json:"mehs"`
	Grabs     int       `json:"grabs"`
	EndedAt   time.Time `json:"endedAt"`
}

type trackResponse struct {
	HistoryID string `json:"historyId"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Duration  int    `json:"duration"`
	StartTime string `json:"startTime"`
	Woots     int    `json:"woots"`
	Mehs      int    `json:"mehs"`
}

type roomResponse struct {
	Slug       string         `json:"slug"`
	Name       string         `json:"name"`
	Welcome    string         `json:"welcome"`
	Population int            `json:"population"`
	CurrentDJ  int64          `json:"currentDJ"`
	WaitingDJs []int64        `json:"waitingDJs"`
	Locked     bool           `json:"locked"`
	Track      *trackResponse `json:"track"`
}
