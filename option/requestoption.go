package option

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hilthontt/plugdj/internal/requestconfig"
	"go.uber.org/zap"
)

// RequestOption is an option for the requests made by the plugdj API Client
// which can be supplied to clients, services, and methods.
type RequestOption = requestconfig.RequestOption

type Middleware = func(*http.Request, MiddlewareNext) (*http.Response, error)

type MiddlewareNext = func(*http.Request) (*http.Response, error)

func parseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("option: %q is not an absolute URL", raw)
	}
	return u, nil
}

// WithBaseURL sets the base URL REST paths are resolved against. A trailing
// slash is added when missing.
func WithBaseURL(base string) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := parseURL(base)
		if err != nil {
			return fmt.Errorf("option: WithBaseURL: %w", err)
		}
		r.BaseURL = u
		return nil
	})
}

// WithSocketURL sets the websocket endpoint dialed by Client.DialSocket.
func WithSocketURL(socket string) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		u, err := parseURL(socket)
		if err != nil {
			return fmt.Errorf("option: WithSocketURL: %w", err)
		}
		r.SocketURL = u
		return nil
	})
}

// WithEnvironmentProduction points the client at the public plug.dj hosts.
func WithEnvironmentProduction() RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		base, err := url.Parse(requestconfig.DefaultBaseURL)
		if err != nil {
			return err
		}
		socket, err := url.Parse(requestconfig.DefaultSocketURL)
		if err != nil {
			return err
		}
		r.BaseURL, r.SocketURL = base, socket
		return nil
	})
}

// WithHTTPClient replaces the client used for REST calls and the socket
// handshake. The cookie jar of client carries the session.
func WithHTTPClient(client *http.Client) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		if client == nil {
			return fmt.Errorf("option: WithHTTPClient: nil client")
		}
		r.HTTPClient = client
		return nil
	})
}

func WithHTTPDoer(doer requestconfig.HTTPDoer) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.CustomHTTPDoer = doer
		return nil
	})
}

// WithMiddleware appends middlewares. They run in the order given, the first
// one being the outermost.
func WithMiddleware(middlewares ...Middleware) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.Middlewares = append(r.Middlewares, middlewares...)
		return nil
	})
}

func WithHeader(key, value string) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.Request.Header.Set(key, value)
		return nil
	})
}

func WithHeaderDel(key string) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.Request.Header.Del(key)
		return nil
	})
}

func WithUserAgent(agent string) RequestOption {
	return WithHeader("User-Agent", agent)
}

func WithQuery(key, value string) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.Query.Set(key, value)
		return nil
	})
}

// WithMaxRetries sets how many times a failed request is retried. Only
// network errors, 429 and 5xx responses are retried.
func WithMaxRetries(retries int) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		if retries < 0 {
			return fmt.Errorf("option: WithMaxRetries: %d is negative", retries)
		}
		r.MaxRetries = retries
		return nil
	})
}

func WithRetryDelay(d time.Duration) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.RetryDelay = d
		return nil
	})
}

// WithRequestTimeout bounds every attempt, not the whole retry loop.
func WithRequestTimeout(d time.Duration) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.RequestTimeout = d
		return nil
	})
}

// WithResponseInto stores the raw *http.Response of the call in dst.
func WithResponseInto(dst **http.Response) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.ResponseInto = dst
		return nil
	})
}

func WithLogger(logger *zap.Logger) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		if logger != nil {
			r.Logger = logger
		}
		return nil
	})
}
