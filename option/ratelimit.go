package option

import (
	"net/http"

	"golang.org/x/time/rate"
)

// WithRateLimiter makes every attempt, retries included, wait for a token
// from l. Share one limiter between clients that log in as the same user;
// the site throttles per account.
func WithRateLimiter(l *rate.Limiter) RequestOption {
	return WithMiddleware(func(req *http.Request, next MiddlewareNext) (*http.Response, error) {
		if err := l.Wait(req.Context()); err != nil {
			return nil, err
		}
		return next(req)
	})
}
