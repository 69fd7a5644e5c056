package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hilthontt/plugdj/internal/domain"
)

// Oldest messages are evicted when capacity is exceeded.
type chatRepository struct {
	messages map[string][]domain.ChatMessage // room -> []ChatMessage
	capacity uint
	now      func() time.Time
	mu       *sync.RWMutex
}

func NewChatRepository(capacity uint) domain.ChatRepository {
	if capacity == 0 {
		capacity = 100 // sane default
	}
	return &chatRepository{
		capacity: capacity,
		messages: make(map[string][]domain.ChatMessage),
		now:      time.Now,
		mu:       &sync.RWMutex{},
	}
}

func (r *chatRepository) Create(ctx context.Context, message *domain.ChatMessage) error {
	if message == nil || message.Room == "" {
		return domain.ErrInvalidInput
	}

	// Chat ids are assigned by the site; locally sent lines may lack one.
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = r.now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	roomMsgs, exists := r.messages[message.Room]
	if !exists {
		roomMsgs = make([]domain.ChatMessage, 0, r.capacity)
	}

	roomMsgs = append(roomMsgs, *message)

	if len(roomMsgs) > int(r.capacity) {
		excess := len(roomMsgs) - int(r.capacity)
		roomMsgs = slices.Delete(roomMsgs, 0, excess)
	}

	r.messages[message.Room] = roomMsgs

	return nil
}

// Delete removes a message and keeps the order of the rest. Unknown ids are
// ignored.
func (r *chatRepository) Delete(ctx context.Context, room, id string) error {
	if id == "" || room == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	roomMsgs, exists := r.messages[room]
	if !exists {
		return nil // idempotent: already gone
	}

	r.messages[room] = slices.DeleteFunc(roomMsgs, func(m domain.ChatMessage) bool {
		return m.ID == id
	})

	return nil
}

func (r *chatRepository) GetByRoom(ctx context.Context, room string) ([]domain.ChatMessage, error) {
	if room == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	roomMsgs, exists := r.messages[room]
	if !exists || len(roomMsgs) == 0 {
		return []domain.ChatMessage{}, nil
	}

	// Return a copy to prevent external mutation
	return slices.Clone(roomMsgs), nil
}
