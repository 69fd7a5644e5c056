// Package api serves the read-only status endpoints of plugbot.
package api

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hilthontt/plugdj/internal/infrastructure/configs"
	"github.com/hilthontt/plugdj/internal/infrastructure/logging"
	feedHandler "github.com/hilthontt/plugdj/internal/presentation/handler/feed"
	healthHandler "github.com/hilthontt/plugdj/internal/presentation/handler/health"
	roomHandler "github.com/hilthontt/plugdj/internal/presentation/handler/rooms"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

// Registry is what the application registers its collectors on and serves
// on /metrics. *prometheus.Registry satisfies it.
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

type Application struct {
	config          configs.StatusConfig
	roomHandler     *roomHandler.Handler
	healthHandler   *healthHandler.Handler
	feedHandler     *feedHandler.Handler
	logger          logging.Logger
	ratelimiter     Limiter
	registry        Registry
	requestDuration *prometheus.HistogramVec
}

func NewApplication(
	config configs.StatusConfig,
	roomHandler *roomHandler.Handler,
	healthHandler *healthHandler.Handler,
	feedHandler *feedHandler.Handler,
	logger logging.Logger,
	ratelimiter Limiter,
	registry Registry,
) *Application {
	return &Application{
		config:        config,
		roomHandler:   roomHandler,
		healthHandler: healthHandler,
		feedHandler:   feedHandler,
		logger:        logger,
		ratelimiter:   ratelimiter,
		registry:      registry,
		requestDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "plugbot",
			Subsystem: "status",
			Name:      "request_duration_seconds",
			Help:      "Latency of status server requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)

	r.Route("/api", func(r chi.Router) {
		r.Route("/room", func(r chi.Router) {
			r.Get("/", app.roomHandler.GetRoomHandler)
			r.Get("/chat", app.roomHandler.GetChatHandler)
			r.Get("/history", app.roomHandler.GetHistoryHandler)
			if app.feedHandler != nil {
				r.Get("/feed", app.feedHandler.FollowRoomHandler)
			}
		})

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	r.Handle("/debug/vars", expvar.Handler())

	return otelhttp.NewHandler(r, "plugbot.status")
}

// Run serves mux until ctx is cancelled, then shuts down gracefully.
func (app *Application) Run(ctx context.Context, mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.Host, app.config.Port),
		Handler:      mux,
		WriteTimeout: app.config.WriteTimeout,
		ReadTimeout:  app.config.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error, 1)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "status server stopping", map[logging.ExtraKey]any{
			"Addr": srv.Addr,
		})

		shutdown <- srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(logging.General, logging.Startup, "status server has started", map[logging.ExtraKey]any{
		"Addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "status server has stopped", map[logging.ExtraKey]any{
		"Addr": srv.Addr,
	})

	return nil
}
