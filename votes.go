package plugdj

import (
	"context"
	"net/http"

	"github.com/hilthontt/plugdj/option"
)

type VoteService struct {
	Options []option.RequestOption
}

func NewVoteService(opts ...option.RequestOption) *VoteService {
	return &VoteService{opts}
}

type voteParams struct {
	Direction int    `json:"direction"`
	HistoryID string `json:"historyID"`
}

// Vote casts direction on the turn historyID. Directions other than 1 and -1
// are forwarded as given.
func (v *VoteService) Vote(ctx context.Context, historyID string, direction int, opts ...option.RequestOption) error {
	if historyID == "" {
		return ErrMissingIDParameter
	}
	return exec(ctx, http.MethodPost, "votes", voteParams{Direction: direction, HistoryID: historyID}, v.Options, opts)
}

func (v *VoteService) Woot(ctx context.Context, historyID string, opts ...option.RequestOption) error {
	return v.Vote(ctx, historyID, DirectionWoot, opts...)
}

func (v *VoteService) Meh(ctx context.Context, historyID string, opts ...option.RequestOption) error {
	return v.Vote(ctx, historyID, DirectionMeh, opts...)
}

type grabParams struct {
	PlaylistID int64  `json:"playlistID"`
	HistoryID  string `json:"historyID"`
}

// Grab adds the track of historyID to playlistID.
func (v *VoteService) Grab(ctx context.Context, playlistID int64, historyID string, opts ...option.RequestOption) error {
	if historyID == "" {
		return ErrMissingIDParameter
	}
	return exec(ctx, http.MethodPost, "grabs", grabParams{PlaylistID: playlistID, HistoryID: historyID}, v.Options, opts)
}
