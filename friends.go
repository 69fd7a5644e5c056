package plugdj

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hilthontt/plugdj/option"
)

type FriendService struct {
	Options []option.RequestOption
}

func NewFriendService(opts ...option.RequestOption) *FriendService {
	return &FriendService{opts}
}

func (f *FriendService) List(ctx context.Context, opts ...option.RequestOption) ([]Friend, error) {
	return call[Friend](ctx, http.MethodGet, "friends", nil, f.Options, opts)
}

// Request sends a friend request to userID.
func (f *FriendService) Request(ctx context.Context, userID int64, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPost, "friends", idParams{ID: userID}, f.Options, opts)
}

func (f *FriendService) Delete(ctx context.Context, userID int64, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodDelete, fmt.Sprintf("friends/%d", userID), nil, f.Options, opts)
}

// Invites lists the pending friend requests sent to the session user.
func (f *FriendService) Invites(ctx context.Context, opts ...option.RequestOption) ([]Invite, error) {
	return call[Invite](ctx, http.MethodGet, "friends/invites", nil, f.Options, opts)
}

// Accept answers a pending request. Accepting is requesting back.
func (f *FriendService) Accept(ctx context.Context, userID int64, opts ...option.RequestOption) error {
	return f.Request(ctx, userID, opts...)
}

func (f *FriendService) Reject(ctx context.Context, userID int64, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPut, "friends/ignore", idParams{ID: userID}, f.Options, opts)
}
