package plugdj

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hilthontt/plugdj/option"
	"github.com/hilthontt/plugdj/room"
)

type RoomService struct {
	Options []option.RequestOption
}

func NewRoomService(opts ...option.RequestOption) *RoomService {
	return &RoomService{opts}
}

type joinRoomParams struct {
	Slug string `json:"slug"`
}

// Join moves the session into the room identified by slug.
func (r *RoomService) Join(ctx context.Context, slug string, opts ...option.RequestOption) error {
	if slug == "" {
		return ErrMissingSlug
	}
	return exec(ctx, http.MethodPost, "rooms/join", joinRoomParams{Slug: slug}, r.Options, opts)
}

// State returns the full state of the room the session is in.
func (r *RoomService) State(ctx context.Context, opts ...option.RequestOption) (*room.RawRoomState, error) {
	return callOne[room.RawRoomState](ctx, http.MethodGet, "rooms/state", nil, r.Options, opts)
}

func (r *RoomService) History(ctx context.Context, opts ...option.RequestOption) ([]HistoryEntry, error) {
	return call[HistoryEntry](ctx, http.MethodGet, "rooms/history", nil, r.Options, opts)
}

func pageQuery(page, limit int) []option.RequestOption {
	return []option.RequestOption{
		option.WithQuery("page", strconv.Itoa(page)),
		option.WithQuery("limit", strconv.Itoa(limit)),
	}
}

func (r *RoomService) List(ctx context.Context, page, limit int, opts ...option.RequestOption) ([]RoomSummary, error) {
	opts = append(pageQuery(page, limit), opts...)
	return call[RoomSummary](ctx, http.MethodGet, "rooms", nil, r.Options, opts)
}

func (r *RoomService) Search(ctx context.Context, query string, page, limit int, opts ...option.RequestOption) ([]RoomSummary, error) {
	opts = append(append(pageQuery(page, limit), option.WithQuery("q", query)), opts...)
	return call[RoomSummary](ctx, http.MethodGet, "rooms", nil, r.Options, opts)
}

func (r *RoomService) Favorites(ctx context.Context, page, limit int, opts ...option.RequestOption) ([]RoomSummary, error) {
	opts = append(pageQuery(page, limit), opts...)
	return call[RoomSummary](ctx, http.MethodGet, "rooms/favorites", nil, r.Options, opts)
}

type idParams struct {
	ID int64 `json:"id"`
}

func (r *RoomService) Favorite(ctx context.Context, id int64, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPost, "rooms/favorites", idParams{ID: id}, r.Options, opts)
}

func (r *RoomService) Unfavorite(ctx context.Context, id int64, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodDelete, fmt.Sprintf("rooms/favorites/%d", id), nil, r.Options, opts)
}

type RoomUpdateParams struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Welcome     string `json:"welcome"`
}

// Update changes the name, description and welcome message of the room.
func (r *RoomService) Update(ctx context.Context, body RoomUpdateParams, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPost, "rooms/update", body, r.Options, opts)
}
