package ws

import (
	"context"
	"errors"

	"github.com/hilthontt/plugdj/internal/domain"
	"go.uber.org/zap"
)

// Core owns the feed clients. All membership changes and broadcasts go
// through Run so a client's channel is never written after it is closed.
type Core struct {
	roomMgr        *RoomManager
	register       chan *Client
	unregister     chan *Client
	broadcast      chan *WSMessage
	chatRepository domain.ChatRepository
	logger         *zap.Logger
	done           chan struct{}
}

func NewCore(roomMgr *RoomManager, chatRepository domain.ChatRepository, logger *zap.Logger) *Core {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Core{
		roomMgr:        roomMgr,
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan *WSMessage, 256),
		chatRepository: chatRepository,
		logger:         logger,
		done:           make(chan struct{}),
	}
}

// Run serves until ctx is done. It must be called once.
func (c *Core) Run(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			c.roomMgr.CloseAll()
			return

		case cl := <-c.register:
			c.roomMgr.AddClient(cl)
			c.replayChat(ctx, cl)

		case cl := <-c.unregister:
			c.roomMgr.RemoveClient(cl)

		case msg := <-c.broadcast:
			dropped, err := c.roomMgr.BroadcastToRoom(msg)
			if err != nil && !errors.Is(err, ErrRoomNotFound) {
				c.logger.Warn("broadcast failed", zap.Error(err))
			}
			if dropped > 0 {
				c.logger.Debug("slow feed clients skipped a message",
					zap.String("room", msg.Room),
					zap.String("type", msg.Type),
					zap.Int("dropped", dropped),
				)
			}
		}
	}
}

// replayChat queues the logged chat of the client's room. Lines that do not
// fit the client buffer are skipped.
func (c *Core) replayChat(ctx context.Context, cl *Client) {
	messages, err := c.chatRepository.GetByRoom(ctx, cl.Room)
	if err != nil {
		c.logger.Warn("chat replay failed", zap.String("room", cl.Room), zap.Error(err))
		return
	}
	if over := len(messages) - cap(cl.Message)/2; over > 0 {
		messages = messages[over:]
	}
	for _, m := range messages {
		select {
		case cl.Message <- NewChatReceived(cl.Room, m.ID, m.Content, m.UserID, m.Username, m.CreatedAt):
		default:
			return
		}
	}
}

// Register adds cl to its room. It reports false once Run has returned.
func (c *Core) Register(cl *Client) bool {
	select {
	case c.register <- cl:
		return true
	case <-c.done:
		return false
	}
}

func (c *Core) Unregister(cl *Client) {
	select {
	case c.unregister <- cl:
	case <-c.done:
	}
}

// Publish queues msg without blocking. It reports false when the broadcast
// queue is full and msg was dropped.
func (c *Core) Publish(msg *WSMessage) bool {
	select {
	case c.broadcast <- msg:
		return true
	default:
		c.logger.Warn("feed queue full, dropping message", zap.String("type", msg.Type))
		return false
	}
}
