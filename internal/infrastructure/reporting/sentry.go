// Package reporting forwards listener failures to Sentry.
package reporting

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hilthontt/plugdj/dispatch"
	"github.com/hilthontt/plugdj/internal"
)

type Config struct {
	DSN         string
	Environment string
	SampleRate  float64
}

// Reporter is nil when reporting is disabled; its methods are nil-safe.
type Reporter struct {
	hub *sentry.Hub
}

// New returns a nil Reporter when cfg.DSN is empty.
func New(cfg Config) (*Reporter, error) {
	if cfg.DSN == "" {
		return nil, nil
	}
	return NewWithOptions(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     "plugbot@" + internal.PackageVersion,
		SampleRate:  cfg.SampleRate,
	})
}

func NewWithOptions(opts sentry.ClientOptions) (*Reporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &Reporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// HandlerFailed reports err tagged with the listener, handler and event kind.
func (r *Reporter) HandlerFailed(err *dispatch.HandlerError) {
	if r == nil || err == nil {
		return
	}
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("listener", err.Listener)
		scope.SetTag("handler", err.Handler)
		scope.SetTag("kind", err.Kind)
		scope.SetExtra("listener_id", err.ListenerID)
		r.hub.CaptureException(err)
	})
}

// Flush waits up to timeout for queued events to be sent.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if r == nil {
		return true
	}
	return r.hub.Flush(timeout)
}
