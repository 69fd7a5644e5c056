package plugdj

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"slices"

	"github.com/hilthontt/plugdj/internal/requestconfig"
	"github.com/hilthontt/plugdj/option"
)

type AuthService struct {
	Options []option.RequestOption
}

func NewAuthService(opts ...option.RequestOption) *AuthService {
	return &AuthService{opts}
}

// landingPath resolves against the base URL to the site root, which embeds
// the csrf token before login and the socket token after it.
const landingPath = "/"

// jsVar matches `var name = "value"` style assignments in the landing page.
func jsVar(name string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(name) + `\s*=\s*["']([^"']*)["']`)
}

var (
	csrfPattern  = jsVar("_csrf")
	tokenPattern = jsVar("_jm")
)

type loginParams struct {
	CSRF     string `json:"csrf"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthService) landing(ctx context.Context, opts []option.RequestOption) ([]byte, error) {
	var page []byte
	opts = slices.Concat(a.Options, opts, []option.RequestOption{option.WithHeader("Accept", "text/html")})
	if err := requestconfig.ExecuteNewRequest(ctx, http.MethodGet, landingPath, nil, &page, opts...); err != nil {
		return nil, fmt.Errorf("fetch landing page: %w", err)
	}
	return page, nil
}

// Login scrapes the csrf token from the landing page and posts the
// credentials. The session cookie lands in the client's cookie jar.
func (a *AuthService) Login(ctx context.Context, email, password string, opts ...option.RequestOption) error {
	page, err := a.landing(ctx, opts)
	if err != nil {
		return err
	}
	m := csrfPattern.FindSubmatch(page)
	if m == nil {
		return fmt.Errorf("%w: csrf token not found", ErrInvalidLogin)
	}

	body := loginParams{CSRF: string(m[1]), Email: email, Password: password}
	err = exec(ctx, http.MethodPost, "auth/login", body, a.Options, opts)

	var apiErr *Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStatusNotOK):
		return fmt.Errorf("%w: %s", ErrInvalidLogin, email)
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrInvalidLogin, email)
	default:
		return fmt.Errorf("login: %w", err)
	}
}

// SocketToken fetches the landing page of a logged-in session and returns the
// token the push socket expects in its auth message.
func (a *AuthService) SocketToken(ctx context.Context, opts ...option.RequestOption) (string, error) {
	page, err := a.landing(ctx, opts)
	if err != nil {
		return "", err
	}
	m := tokenPattern.FindSubmatch(page)
	if m == nil || len(m[1]) == 0 {
		return "", ErrMissingToken
	}
	return string(m[1]), nil
}
