package requestconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/hilthontt/plugdj/internal"
	"github.com/hilthontt/plugdj/internal/apierror"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL   = "https://plug.dj/_/"
	DefaultSocketURL = "wss://godj.plug.dj:443/socket"
)

// This interface is primarily used to describe an [*http.Client], but also
// supports custom HTTP implementations.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestConfig represents all the state related to one request.
//
// Editing the variables inside RequestConfig directly is unstable api. Prefer
// composing the RequestOption instead if possible.
type RequestConfig struct {
	MaxRetries     int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
	Context        context.Context
	Request        *http.Request
	BaseURL        *url.URL
	// DefaultBaseURL will be used if BaseURL is not explicitly overridden using
	// WithBaseURL.
	DefaultBaseURL *url.URL
	SocketURL      *url.URL
	CustomHTTPDoer HTTPDoer
	HTTPClient     *http.Client
	Middlewares    []middleware
	Logger         *zap.Logger
	// If ResponseBodyInto not nil, then we will attempt to deserialize into
	// ResponseBodyInto. If Destination is a *[]byte, then it will return the body as
	// is.
	ResponseBodyInto any
	// ResponseInto copies the \*http.Response of the corresponding request into the
	// given address
	ResponseInto **http.Response
	Query        url.Values
	Body         io.Reader

	path string
}

// middleware is exactly the same type as the Middleware type found in the [option] package,
// but it is redeclared here for circular dependency issues.
type middleware = func(*http.Request, middlewareNext) (*http.Response, error)

// middlewareNext is exactly the same type as the MiddlewareNext type found in the [option] package,
// but it is redeclared here for circular dependency issues.
type middlewareNext = func(*http.Request) (*http.Response, error)

type RequestOption interface {
	Apply(*RequestConfig) error
}

type RequestOptionFunc func(*RequestConfig) error

func (s RequestOptionFunc) Apply(r *RequestConfig) error {
	return s(r)
}

func getDefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent": fmt.Sprintf("plugdj-go/%s (%s; %s)", internal.PackageVersion, runtime.GOOS, runtime.GOARCH),
		"Accept":     "application/json",
	}
}

func NewRequestConfig(ctx context.Context, method string, path string, body any, dst any, opts ...RequestOption) (*RequestConfig, error) {
	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	case []byte:
		reader = bytes.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("requestconfig: encode body: %w", err)
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, "", reader)
	if err != nil {
		return nil, err
	}
	for k, v := range getDefaultHeaders() {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	defaultBase, _ := url.Parse(DefaultBaseURL)
	socketURL, _ := url.Parse(DefaultSocketURL)
	cfg := RequestConfig{
		MaxRetries:       2,
		RetryDelay:       500 * time.Millisecond,
		Context:          ctx,
		Request:          req,
		DefaultBaseURL:   defaultBase,
		SocketURL:        socketURL,
		HTTPClient:       http.DefaultClient,
		Logger:           zap.NewNop(),
		ResponseBodyInto: dst,
		Query:            url.Values{},
		Body:             reader,
		path:             path,
	}
	if err := cfg.Apply(opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *RequestConfig) Apply(opts ...RequestOption) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.Apply(cfg); err != nil {
			return err
		}
	}
	return nil
}

// ResolvedBaseURL returns BaseURL, or DefaultBaseURL when unset.
func (cfg *RequestConfig) ResolvedBaseURL() *url.URL {
	if cfg.BaseURL != nil {
		return cfg.BaseURL
	}
	return cfg.DefaultBaseURL
}

type attempt struct {
	res  *http.Response
	body []byte
}

func (cfg *RequestConfig) Execute() error {
	u, err := cfg.ResolvedBaseURL().Parse(cfg.path)
	if err != nil {
		return fmt.Errorf("requestconfig: resolve %q: %w", cfg.path, err)
	}
	if len(cfg.Query) > 0 {
		q := u.Query()
		for k, vs := range cfg.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	cfg.Request.URL = u
	cfg.Request.Host = u.Host

	handler := cfg.HTTPClient.Do
	if cfg.CustomHTTPDoer != nil {
		handler = cfg.CustomHTTPDoer.Do
	}
	for i := len(cfg.Middlewares) - 1; i >= 0; i-- {
		mw, next := cfg.Middlewares[i], handler
		handler = func(req *http.Request) (*http.Response, error) {
			return mw(req, next)
		}
	}

	tries := 0
	op := func() (attempt, error) {
		tries++
		return cfg.try(handler)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.RetryDelay
	out, err := backoff.Retry(cfg.Context, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(max(cfg.MaxRetries, 0)+1)),
	)

	fields := []zap.Field{
		zap.String("method", cfg.Request.Method),
		zap.String("url", u.String()),
		zap.Int("tries", tries),
	}
	if err != nil {
		cfg.Logger.Debug("request failed", append(fields, zap.Error(err))...)
		return err
	}
	cfg.Logger.Debug("request done", append(fields, zap.Int("status", out.res.StatusCode))...)

	if cfg.ResponseInto != nil {
		*cfg.ResponseInto = out.res
	}

	switch dst := cfg.ResponseBodyInto.(type) {
	case nil:
		return nil
	case *[]byte:
		*dst = out.body
		return nil
	default:
		if len(bytes.TrimSpace(out.body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(out.body, dst); err != nil {
			return fmt.Errorf("requestconfig: decode %s %s: %w", cfg.Request.Method, u, err)
		}
		return nil
	}
}

func (cfg *RequestConfig) try(handler middlewareNext) (attempt, error) {
	ctx := cfg.Context
	if cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
	}

	req := cfg.Request.Clone(ctx)
	if cfg.Request.GetBody != nil {
		body, err := cfg.Request.GetBody()
		if err != nil {
			return attempt{}, backoff.Permanent(err)
		}
		req.Body = body
	}

	res, err := handler(req)
	if err != nil {
		if cfg.Context.Err() != nil {
			return attempt{}, backoff.Permanent(cfg.Context.Err())
		}
		return attempt{}, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return attempt{}, err
	}
	res.Body = io.NopCloser(bytes.NewReader(body))

	if res.StatusCode < http.StatusBadRequest {
		return attempt{res: res, body: body}, nil
	}

	apiErr := &apierror.Error{
		StatusCode: res.StatusCode,
		Method:     req.Method,
		URL:        req.URL.String(),
		Body:       body,
		Request:    req,
		Response:   res,
	}
	if !apiErr.Temporary() {
		return attempt{}, backoff.Permanent(apiErr)
	}
	if secs, err := strconv.Atoi(res.Header.Get("Retry-After")); err == nil && secs > 0 {
		return attempt{}, errors.Join(apiErr, backoff.RetryAfter(secs))
	}
	return attempt{}, apiErr
}

func ExecuteNewRequest(ctx context.Context, method string, path string, params any, dst any, opts ...RequestOption) error {
	cfg, err := NewRequestConfig(ctx, method, path, params, dst, opts...)
	if err != nil {
		return err
	}
	return cfg.Execute()
}
