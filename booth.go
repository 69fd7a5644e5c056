package plugdj

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hilthontt/plugdj/option"
)

// BoothService manages the wait list. Everything except Join, Leave and
// SkipMe needs a staff role in the room.
type BoothService struct {
	Options []option.RequestOption
}

func NewBoothService(opts ...option.RequestOption) *BoothService {
	return &BoothService{opts}
}

func (b *BoothService) Join(ctx context.Context, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPost, "booth", nil, b.Options, opts)
}

func (b *BoothService) Leave(ctx context.Context, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodDelete, "booth", nil, b.Options, opts)
}

// SkipMe ends the session user's own turn.
func (b *BoothService) SkipMe(ctx context.Context, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPost, "booth/skip/me", nil, b.Options, opts)
}

type skipParams struct {
	UserID    int64  `json:"userID"`
	HistoryID string `json:"historyID"`
}

// Skip ends the turn historyID of userID.
func (b *BoothService) Skip(ctx context.Context, userID int64, historyID string, opts ...option.RequestOption) error {
	if historyID == "" {
		return ErrMissingIDParameter
	}
	return exec(ctx, http.MethodPost, "booth/skip", skipParams{UserID: userID, HistoryID: historyID}, b.Options, opts)
}

func (b *BoothService) AddDJ(ctx context.Context, userID int64, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPost, "booth/add", idParams{ID: userID}, b.Options, opts)
}

func (b *BoothService) RemoveDJ(ctx context.Context, userID int64, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodDelete, fmt.Sprintf("booth/remove/%d", userID), nil, b.Options, opts)
}

type moveParams struct {
	UserID   int64 `json:"userID"`
	Position int   `json:"position"`
}

func (b *BoothService) MoveDJ(ctx context.Context, userID int64, position int, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPost, "booth/move", moveParams{UserID: userID, Position: position}, b.Options, opts)
}

type lockParams struct {
	IsLocked     bool `json:"isLocked"`
	RemoveAllDJs bool `json:"removeAllDJs"`
}

// Lock locks or unlocks the wait list. removeAll also empties it.
func (b *BoothService) Lock(ctx context.Context, locked, removeAll bool, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPut, "booth/lock", lockParams{IsLocked: locked, RemoveAllDJs: removeAll}, b.Options, opts)
}

type cycleParams struct {
	ShouldCycle bool `json:"shouldCycle"`
}

func (b *BoothService) Cycle(ctx context.Context, shouldCycle bool, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPut, "booth/cycle", cycleParams{ShouldCycle: shouldCycle}, b.Options, opts)
}
