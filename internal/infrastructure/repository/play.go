package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hilthontt/plugdj/internal/domain"
)

// playRepository keeps the last capacity plays of every room.
type playRepository struct {
	plays    map[string][]domain.Play // room -> oldest first
	capacity uint
	mu       *sync.RWMutex
}

func NewPlayRepository(capacity uint) domain.PlayRepository {
	if capacity == 0 {
		capacity = 50
	}
	return &playRepository{
		plays:    make(map[string][]domain.Play),
		capacity: capacity,
		mu:       &sync.RWMutex{},
	}
}

func (r *playRepository) Record(ctx context.Context, play *domain.Play) error {
	if play == nil || play.Room == "" || play.HistoryID == "" {
		return domain.ErrInvalidInput
	}
	if play.EndedAt.IsZero() {
		play.EndedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	roomPlays := r.plays[play.Room]
	// the same turn can be reported twice if a refresh raced an advance
	if i := slices.IndexFunc(roomPlays, func(p domain.Play) bool { return p.HistoryID == play.HistoryID }); i >= 0 {
		roomPlays[i] = *play
		return nil
	}

	roomPlays = append(roomPlays, *play)
	if len(roomPlays) > int(r.capacity) {
		roomPlays = slices.Delete(roomPlays, 0, len(roomPlays)-int(r.capacity))
	}
	r.plays[play.Room] = roomPlays

	return nil
}

func (r *playRepository) GetByRoom(ctx context.Context, room string) ([]domain.Play, error) {
	if room == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.plays[room])
	slices.Reverse(out)
	if out == nil {
		out = []domain.Play{}
	}
	return out, nil
}
