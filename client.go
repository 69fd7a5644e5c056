// Package plugdj is a client for the plug.dj REST API and push socket, and
// the session type that keeps a mirrored room in sync with both.
package plugdj

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"os"
	"slices"

	"github.com/hilthontt/plugdj/internal/requestconfig"
	"github.com/hilthontt/plugdj/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Client struct {
	Options    []option.RequestOption
	Auth       *AuthService
	Rooms      *RoomService
	Booth      *BoothService
	Playlists  *PlaylistService
	Friends    *FriendService
	Moderation *ModerationService
	Users      *UserService
	Votes      *VoteService
}

// NewHTTPClient returns a client with its own cookie jar, which carries the
// login session, and a traced transport.
func NewHTTPClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Jar:       jar,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func DefaultClientOptions() []option.RequestOption {
	defaults := []option.RequestOption{
		option.WithEnvironmentProduction(),
		option.WithHTTPClient(NewHTTPClient()),
	}
	if o, ok := os.LookupEnv("PLUGDJ_BASE_URL"); ok {
		defaults = append(defaults, option.WithBaseURL(o))
	}
	if o, ok := os.LookupEnv("PLUGDJ_SOCKET_URL"); ok {
		defaults = append(defaults, option.WithSocketURL(o))
	}
	return defaults
}

func NewClient(opts ...option.RequestOption) *Client {
	opts = append(DefaultClientOptions(), opts...)

	return &Client{
		Options:    opts,
		Auth:       NewAuthService(opts...),
		Rooms:      NewRoomService(opts...),
		Booth:      NewBoothService(opts...),
		Playlists:  NewPlaylistService(opts...),
		Friends:    NewFriendService(opts...),
		Moderation: NewModerationService(opts...),
		Users:      NewUserService(opts...),
		Votes:      NewVoteService(opts...),
	}
}

func (c *Client) Execute(ctx context.Context, method, path string, params, res any, opts ...option.RequestOption) error {
	opts = slices.Concat(c.Options, opts)
	return requestconfig.ExecuteNewRequest(ctx, method, path, params, res, opts...)
}

func (c *Client) Get(ctx context.Context, path string, params, res any, opts ...option.RequestOption) error {
	return c.Execute(ctx, http.MethodGet, path, params, res, opts...)
}

func (c *Client) Post(ctx context.Context, path string, params, res any, opts ...option.RequestOption) error {
	return c.Execute(ctx, http.MethodPost, path, params, res, opts...)
}

func (c *Client) Put(ctx context.Context, path string, params, res any, opts ...option.RequestOption) error {
	return c.Execute(ctx, http.MethodPut, path, params, res, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, params, res any, opts ...option.RequestOption) error {
	return c.Execute(ctx, http.MethodDelete, path, params, res, opts...)
}
