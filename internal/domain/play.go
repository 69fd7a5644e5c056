package domain

import (
	"context"
	"time"
)

// Play is a finished turn with its final tally.
type Play struct {
	HistoryID string    `json:"historyId"`
	Room      string    `json:"room"`
	DJID      int64     `json:"djId"`
	MediaID   int64     `json:"mediaId"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Woots     int       `json:"woots"`
	Mehs      int       `json:"mehs"`
	Grabs     int       `json:"grabs"`
	EndedAt   time.Time `json:"endedAt"`
}

type PlayRepository interface {
	Record(ctx context.Context, play *Play) error
	// GetByRoom returns the plays of room, most recent first.
	GetByRoom(ctx context.Context, room string) ([]Play, error)
}
