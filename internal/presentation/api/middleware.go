package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hilthontt/plugdj/internal/infrastructure/json"
	"github.com/hilthontt/plugdj/internal/infrastructure/logging"
)

func (app *Application) rateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if allow, retryAfter := app.ratelimiter.Allow(r.RemoteAddr); !allow {
			json.WriteRateLimitError(w, int(math.Ceil(retryAfter.Seconds())))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *Application) enableCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// allow preflight requests from the browser API
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// instrument logs every request and feeds the request histogram. Routes are
// labelled by pattern so ids in paths do not blow up cardinality.
func (app *Application) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		latency := time.Since(start)
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		app.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).
			Observe(latency.Seconds())

		app.logger.Debug(logging.RequestResponse, logging.Api, "request served", map[logging.ExtraKey]any{
			logging.ClientIp:   r.RemoteAddr,
			logging.Method:     r.Method,
			logging.Path:       r.URL.Path,
			logging.StatusCode: ww.Status(),
			logging.BodySize:   ww.BytesWritten(),
			logging.Latency:    latency.String(),
		})
	})
}
