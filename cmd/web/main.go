// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command web is the entry point for the Wanderlust listings server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Run database migrations (idempotent).
//  4. Connect to PostgreSQL (pgxpool).
//  5. Connect to Redis (sessions and flashes).
//  6. Wire stores, services, guards and handlers.
//  7. Start HTTP server with graceful shutdown.
//
// Running "web migrate-down" rolls back every migration and exits.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/wanderlust/internal/api"
	"github.com/taibuivan/wanderlust/internal/listing"
	"github.com/taibuivan/wanderlust/internal/platform/config"
	"github.com/taibuivan/wanderlust/internal/platform/constants"
	"github.com/taibuivan/wanderlust/internal/platform/migration"
	pgstore "github.com/taibuivan/wanderlust/internal/platform/postgres"
	redisstore "github.com/taibuivan/wanderlust/internal/platform/redis"
	"github.com/taibuivan/wanderlust/internal/platform/respond"
	"github.com/taibuivan/wanderlust/internal/platform/session"
	"github.com/taibuivan/wanderlust/internal/review"
	"github.com/taibuivan/wanderlust/internal/upload"
	"github.com/taibuivan/wanderlust/internal/users/account"
	"github.com/taibuivan/wanderlust/internal/view"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// ── 3. Migrations ─────────────────────────────────────────────────────
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		must(log, migration.RunDown(cfg.DatabaseURL, cfg.MigrationPath, log), "roll back migrations")
		return
	}
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 4. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 5. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 6. Presentation & Sessions ────────────────────────────────────────
	views, err := view.New(cfg.IsDevelopment())
	must(log, err, "compile templates")
	responder := respond.NewResponder(views)

	sessions := session.NewManager(
		session.NewRedisStore(rdb, cfg.SessionTTL),
		session.CookieOptions{
			Secret: []byte(cfg.SessionSecret),
			MaxAge: cfg.SessionTTL,
			Secure: cfg.IsProduction(),
		},
		responder,
	)

	images, err := upload.NewDiskStore(cfg.UploadDir, cfg.UploadURLPrefix)
	must(log, err, "prepare upload directory")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	userRepository := account.NewUserRepository(pool)
	accountService := account.NewService(userRepository)

	listingRepository := listing.NewRepository(pool)
	reviewRepository := review.NewRepository(pool)
	listingService := listing.NewService(listingRepository, reviewRepository, images)
	reviewService := review.NewService(reviewRepository, listingService)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckSessions: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, responder,
		api.Interceptors{
			Session:     sessions.Middleware,
			CurrentUser: account.LoadCurrentUser(accountService, responder),
		},
		api.Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Uploads:   http.FileServer(http.Dir(images.Dir())),
			Accounts:  account.NewHandler(accountService, sessions, views, responder),
			Listings:  listing.NewHandler(listingService, views, responder, cfg.MaxUploadBytes),
			Reviews:   review.NewHandler(reviewService, responder),
		},
	)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the JSON logger every entry of the process goes through.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
