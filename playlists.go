package plugdj

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hilthontt/plugdj/event"
	"github.com/hilthontt/plugdj/option"
)

type PlaylistService struct {
	Options []option.RequestOption
}

func NewPlaylistService(opts ...option.RequestOption) *PlaylistService {
	return &PlaylistService{opts}
}

func (p *PlaylistService) List(ctx context.Context, opts ...option.RequestOption) ([]Playlist, error) {
	return call[Playlist](ctx, http.MethodGet, "playlists", nil, p.Options, opts)
}

type nameParams struct {
	Name string `json:"name"`
}

func (p *PlaylistService) Create(ctx context.Context, name string, opts ...option.RequestOption) (*Playlist, error) {
	return callOne[Playlist](ctx, http.MethodPost, "playlists", nameParams{Name: name}, p.Options, opts)
}

func (p *PlaylistService) Delete(ctx context.Context, id int64, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodDelete, fmt.Sprintf("playlists/%d", id), nil, p.Options, opts)
}

func (p *PlaylistService) Rename(ctx context.Context, id int64, name string, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPut, fmt.Sprintf("playlists/%d/rename", id), nameParams{Name: name}, p.Options, opts)
}

func (p *PlaylistService) Activate(ctx context.Context, id int64, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPut, fmt.Sprintf("playlists/%d/activate", id), nil, p.Options, opts)
}

func (p *PlaylistService) Media(ctx context.Context, id int64, opts ...option.RequestOption) ([]event.Media, error) {
	return call[event.Media](ctx, http.MethodGet, fmt.Sprintf("playlists/%d/media", id), nil, p.Options, opts)
}

type insertParams struct {
	Media  []MediaInsert `json:"media"`
	Append bool          `json:"append"`
}

// Insert adds media to the playlist, at the end when appendToEnd is set and
// at the top otherwise.
func (p *PlaylistService) Insert(ctx context.Context, id int64, media MediaInsert, appendToEnd bool, opts ...option.RequestOption) error {
	body := insertParams{Media: []MediaInsert{media}, Append: appendToEnd}
	return exec(ctx, http.MethodPost, fmt.Sprintf("playlists/%d/media/insert", id), body, p.Options, opts)
}

type idsParams struct {
	IDs []int64 `json:"ids"`
}

func (p *PlaylistService) DeleteMedia(ctx context.Context, id int64, mediaIDs ...int64) error {
	if len(mediaIDs) == 0 {
		return ErrMissingIDParameter
	}
	return exec(ctx, http.MethodPost, fmt.Sprintf("playlists/%d/media/delete", id), idsParams{IDs: mediaIDs}, p.Options, nil)
}

type moveMediaParams struct {
	IDs      []int64 `json:"ids"`
	BeforeID int64   `json:"beforeID"`
}

// MoveMedia moves mediaIDs in front of beforeID. A beforeID of -1 moves them
// to the end.
func (p *PlaylistService) MoveMedia(ctx context.Context, id, beforeID int64, mediaIDs ...int64) error {
	if len(mediaIDs) == 0 {
		return ErrMissingIDParameter
	}
	body := moveMediaParams{IDs: mediaIDs, BeforeID: beforeID}
	return exec(ctx, http.MethodPut, fmt.Sprintf("playlists/%d/media/move", id), body, p.Options, nil)
}

func (p *PlaylistService) Shuffle(ctx context.Context, id int64, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPut, fmt.Sprintf("playlists/%d/shuffle", id), nil, p.Options, opts)
}
