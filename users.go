package plugdj

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hilthontt/plugdj/event"
	"github.com/hilthontt/plugdj/option"
)

type UserService struct {
	Options []option.RequestOption
}

func NewUserService(opts ...option.RequestOption) *UserService {
	return &UserService{opts}
}

func (u *UserService) Me(ctx context.Context, opts ...option.RequestOption) (*Profile, error) {
	return callOne[Profile](ctx, http.MethodGet, "users/me", nil, u.Options, opts)
}

func (u *UserService) Get(ctx context.Context, id int64, opts ...option.RequestOption) (*event.User, error) {
	return callOne[event.User](ctx, http.MethodGet, fmt.Sprintf("users/%d", id), nil, u.Options, opts)
}

func (u *UserService) Avatars(ctx context.Context, opts ...option.RequestOption) ([]Avatar, error) {
	return call[Avatar](ctx, http.MethodGet, "store/inventory/avatars", nil, u.Options, opts)
}

type avatarParams struct {
	ID string `json:"id"`
}

func (u *UserService) SetAvatar(ctx context.Context, avatarID string, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPut, "users/avatar", avatarParams{ID: avatarID}, u.Options, opts)
}

type statusParams struct {
	Status int `json:"status"`
}

func (u *UserService) SetStatus(ctx context.Context, status int, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPut, "users/status", statusParams{Status: status}, u.Options, opts)
}
