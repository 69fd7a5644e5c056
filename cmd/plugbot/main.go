package main

import (
	"context"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/hilthontt/plugdj"
	"github.com/hilthontt/plugdj/internal/bot"
	"github.com/hilthontt/plugdj/internal/infrastructure/configs"
	"github.com/hilthontt/plugdj/internal/infrastructure/logging"
	"github.com/hilthontt/plugdj/internal/infrastructure/ratelimiter"
	"github.com/hilthontt/plugdj/internal/infrastructure/reporting"
	"github.com/hilthontt/plugdj/internal/infrastructure/repository"
	"github.com/hilthontt/plugdj/internal/infrastructure/tracing"
	"github.com/hilthontt/plugdj/internal/infrastructure/ws"
	"github.com/hilthontt/plugdj/internal/presentation/api"
	feedHandler "github.com/hilthontt/plugdj/internal/presentation/handler/feed"
	healthHandler "github.com/hilthontt/plugdj/internal/presentation/handler/health"
	roomHandler "github.com/hilthontt/plugdj/internal/presentation/handler/rooms"
	"github.com/hilthontt/plugdj/option"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
)

const statusRequestsPerMinute = 120

func main() {
	// credentials usually live in .env next to the binary
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "loading .env:", err)
	}

	configPath := configs.DetermineConfigPath(flag.CommandLine, os.Args[1:])
	cfg, err := configs.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(&logging.LoggerConfig{
		FilePath: cfg.Logger.FilePath,
		Encoding: cfg.Logger.Encoding,
		Level:    cfg.Logger.Level,
		AppName:  "plugbot",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(logging.General, logging.Shutdown, "plugbot stopped", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *configs.Config, logger logging.Logger) error {
	if cfg.Credentials.Email == "" || cfg.Credentials.Password == "" {
		return errors.New("credentials missing: set PLUGDJ_EMAIL and PLUGDJ_PASSWORD")
	}
	if cfg.Bot.Room == "" {
		return errors.New("no room configured: set bot.room or PLUGDJ_ROOM")
	}

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(ctx, tracing.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Environment: cfg.Tracing.Environment,
			Exporter:    cfg.Tracing.Exporter,
			Endpoint:    cfg.Tracing.Endpoint,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	clientOpts := []option.RequestOption{
		option.WithBaseURL(cfg.Plug.BaseURL),
		option.WithSocketURL(cfg.Plug.SocketURL),
		option.WithMaxRetries(cfg.Plug.MaxRetries),
		option.WithRequestTimeout(cfg.Plug.RequestTimeout),
		option.WithLogger(logger.Zap().Named("rest")),
	}
	if cfg.Plug.RequestsPerSecond > 0 {
		burst := max(cfg.Plug.RequestBurst, 1)
		clientOpts = append(clientOpts, option.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.Plug.RequestsPerSecond), burst)))
	}
	if cfg.Plug.UserAgent != "" {
		clientOpts = append(clientOpts, option.WithUserAgent(cfg.Plug.UserAgent))
	}
	if cfg.Logger.Level == "debug" {
		clientOpts = append(clientOpts, option.WithDebugLog(logger.Zap().Named("http")))
	}
	client := plugdj.NewClient(clientOpts...)

	chatLimiter := ratelimiter.NewFixedWindowRateLimiter(cfg.Bot.ChatLimit, cfg.Bot.ChatWindow)
	defer chatLimiter.Close()

	reporter, err := reporting.New(reporting.Config{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Sentry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	defer reporter.Flush(2 * time.Second)

	session := plugdj.NewSession(client,
		plugdj.WithSessionLogger(logger.Zap().Named("session")),
		plugdj.WithMetrics(plugdj.NewMetrics(registry)),
		plugdj.WithChatLimiter(chatLimiter),
		plugdj.WithHandlerFailureHook(reporter.HandlerFailed),
	)
	defer session.Close()

	chatLog := repository.NewChatRepository(cfg.Bot.ChatLogCapacity)
	plays := repository.NewPlayRepository(cfg.Bot.HistoryCapacity)
	b := bot.New(session, chatLog, plays, logger, bot.Config{
		AutoWoot: cfg.Bot.AutoWoot,
		Greeting: cfg.Bot.Greeting,
	})
	if err := session.Register(b); err != nil {
		return err
	}

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("room", expvar.Func(func() any {
		return session.Room()
	}))
	expvar.Publish("uptime_in_room", expvar.Func(func() any {
		return b.Uptime().Round(time.Second).String()
	}))

	if cfg.Status.Enabled {
		statusLimiter := ratelimiter.NewFixedWindowRateLimiter(statusRequestsPerMinute, time.Minute)
		defer statusLimiter.Close()

		roomManager := ws.NewRoomManager()
		core := ws.NewCore(roomManager, chatLog, logger.Zap().Named("feed"))
		go core.Run(ctx)
		if err := session.Register(ws.NewFeed(core, session.Room)); err != nil {
			return err
		}

		app := api.NewApplication(
			cfg.Status,
			roomHandler.NewHandler(session, chatLog, plays, logger.Zap().Named("status")),
			healthHandler.NewHandler(session),
			feedHandler.NewHandler(session.Room, roomManager, core, logger.Zap().Named("feed")),
			logger,
			statusLimiter,
			registry,
		)
		go func() {
			if err := app.Run(ctx, app.Mount()); err != nil {
				logger.Error(logging.General, logging.ExternalService, "status server failed", map[logging.ExtraKey]any{
					logging.ErrorMessage: err.Error(),
				})
			}
		}()
	}

	if err := session.Login(ctx, cfg.Credentials.Email, cfg.Credentials.Password); err != nil {
		return err
	}
	logger.Info(logging.General, logging.Startup, "logged in", map[logging.ExtraKey]any{
		logging.SessionID: session.ID,
	})

	return stayConnected(ctx, session, cfg.Bot.Room, cfg.Bot.ReconnectDelay, logger)
}

// stayConnected connects, joins room and listens, starting over after the
// socket drops. A rejected login or socket auth is not retried.
func stayConnected(ctx context.Context, session *plugdj.Session, slug string, delay time.Duration, logger logging.Logger) error {
	op := func() (struct{}, error) {
		if err := session.Connect(ctx); err != nil {
			return struct{}{}, permanentIf(err)
		}
		if err := session.JoinRoom(ctx, slug); err != nil {
			return struct{}{}, permanentIf(err)
		}

		err := session.Run(ctx)
		if ctx.Err() != nil {
			return struct{}{}, backoff.Permanent(ctx.Err())
		}
		if errors.Is(err, plugdj.ErrAuthRejected) {
			return struct{}{}, backoff.Permanent(err)
		}
		logger.Warn(logging.Socket, logging.ExternalService, "socket dropped, reconnecting", map[logging.ExtraKey]any{
			logging.RoomSlug:     slug,
			logging.ErrorMessage: fmt.Sprint(err),
		})
		if err == nil {
			err = plugdj.ErrSocketClosed
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(delay)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Info(logging.Socket, logging.ExternalService, "retrying connection", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
				"RetryIn":            next.String(),
			})
		}),
	)
	return err
}

func permanentIf(err error) error {
	if errors.Is(err, plugdj.ErrInvalidLogin) || errors.Is(err, plugdj.ErrMissingToken) || errors.Is(err, plugdj.ErrAuthRejected) {
		return backoff.Permanent(err)
	}
	return err
}
