package domain

import (
	"context"
	"time"
)

// ChatMessage is one line of room chat as the bot saw it. ID is the chat id
// assigned by the site, so moderator deletions can be matched.
type ChatMessage struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatRepository interface {
	Create(ctx context.Context, message *ChatMessage) error
	GetByRoom(ctx context.Context, room string) ([]ChatMessage, error)
	Delete(ctx context.Context, room, id string) error
}
