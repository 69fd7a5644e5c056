package option

import (
	"net/http"
	"net/http/httputil"
	"regexp"

	"go.uber.org/zap"
)

var sensitiveHeaderRegex = regexp.MustCompile(`(?im)^(Authorization|Cookie|Set-Cookie|X-Api-Key): .+`)

var passwordRegex = regexp.MustCompile(`("password"\s*:\s*)"[^"]*"`)

func redactSensitive(s string) string {
	s = sensitiveHeaderRegex.ReplaceAllString(s, "$1: [REDACTED]")
	return passwordRegex.ReplaceAllString(s, `$1"[REDACTED]"`)
}

// WithDebugLog dumps every request and response at debug level. Cookies and
// passwords are redacted.
func WithDebugLog(logger *zap.Logger) RequestOption {
	if logger == nil {
		logger = zap.NewNop()
	}

	return WithMiddleware(func(r *http.Request, next MiddlewareNext) (*http.Response, error) {
		if dump, err := httputil.DumpRequestOut(r, true); err == nil {
			logger.Debug("request", zap.String("dump", redactSensitive(string(dump))))
		}

		resp, err := next(r)

		if resp != nil {
			if dump, err := httputil.DumpResponse(resp, true); err == nil {
				logger.Debug("response", zap.String("dump", redactSensitive(string(dump))))
			}
		}

		if err != nil {
			logger.Debug("request error", zap.Error(err))
		}

		return resp, err
	})
}
