package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/event-reminder/internal/api/handlers/event"
	"github.com/aliskhannn/event-reminder/internal/api/router"
	"github.com/aliskhannn/event-reminder/internal/api/server"
	"github.com/aliskhannn/event-reminder/internal/config"
	"github.com/aliskhannn/event-reminder/internal/repository/kv"
	eventsvc "github.com/aliskhannn/event-reminder/internal/service/event"
	"github.com/aliskhannn/event-reminder/internal/worker"
	"github.com/aliskhannn/event-reminder/pkg/email"
	"github.com/aliskhannn/event-reminder/pkg/telegram"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

type backend interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()
	val := validator.New()

	store, closer, err := openBackend(ctx, cfg)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open storage")
	}
	defer func() {
		if err := closer.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to close storage")
		}
	}()

	notifier, err := newNotifier(cfg)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to configure reminders")
	}

	loc, err := cfg.Reminders.Location()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to load timezone")
	}

	scheduler := worker.NewScheduler(notifier)
	events := eventsvc.NewStore(store, scheduler,
		eventsvc.WithKey(cfg.Storage.Key),
		eventsvc.WithLocation(loc),
	)

	if err := events.Initialize(ctx); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to load events")
	}

	if _, err := events.Rearm(ctx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to re-arm some reminders")
	}

	schedulerDone := make(chan struct{})
	go func() {
		scheduler.Run(ctx, cfg.Retry, cfg.Workers.Count)
		close(schedulerDone)
	}()

	r := router.New(event.NewHandler(events, scheduler, val))
	s := server.New(cfg.Server.HTTPPort, r)

	go func() {
		zlog.Logger.Info().Str("addr", cfg.Server.HTTPPort).Msg("starting server")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	<-schedulerDone
}

// openBackend builds the configured key-value backend for the events collection.
func openBackend(ctx context.Context, cfg *config.Config) (backend, io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Storage.SQLite.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create %s: %w", dir, err)
			}
		}

		db, err := kv.NewSQLite(cfg.Storage.SQLite.Path, cfg.Retry)
		if err != nil {
			return nil, nil, err
		}

		return db, db, nil

	case config.DriverRedis:
		rdb := redis.New(cfg.Storage.Redis.Address, cfg.Storage.Redis.Password, cfg.Storage.Redis.Database)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}

		return kv.NewRedis(rdb, cfg.Retry), rdb, nil

	case config.DriverMemory:
		return kv.NewMemory(), closerFunc(func() error { return nil }), nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// newNotifier picks the delivery channel for fired reminders. Channels that need a
// recipient fail fast when none is configured.
func newNotifier(cfg *config.Config) (worker.Notifier, error) {
	switch cfg.Reminders.Channel {
	case "log":
		return worker.LogNotifier{}, nil

	case "email":
		if cfg.Reminders.To == "" {
			return nil, errors.New("email channel requires reminders.to")
		}

		client := email.NewClient(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.Username,
			cfg.Email.Password,
			cfg.Email.From,
		)
		return worker.NewEmailNotifier(client, cfg.Reminders.To), nil

	case "telegram":
		chatID := cfg.Reminders.To
		if chatID == "" {
			chatID = cfg.Telegram.ChatID
		}
		if chatID == "" {
			return nil, errors.New("telegram channel requires reminders.to or telegram.chat_id")
		}

		return worker.NewTelegramNotifier(telegram.NewClient(cfg.Telegram.Token), chatID), nil

	default:
		return nil, fmt.Errorf("unknown channel %s", cfg.Reminders.Channel)
	}
}
