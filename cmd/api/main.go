// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

// Command api is the entry point for the ImChat HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables and install tracing.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire stores, services and handlers.
//  7. Start HTTP server with graceful shutdown.
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

	"github.com/Sherry00124/ImChat/internal/api"
	"github.com/Sherry00124/ImChat/internal/core/friend"
	"github.com/Sherry00124/ImChat/internal/core/group"
	"github.com/Sherry00124/ImChat/internal/platform/config"
	"github.com/Sherry00124/ImChat/internal/platform/constants"
	"github.com/Sherry00124/ImChat/internal/platform/migration"
	pgstore "github.com/Sherry00124/ImChat/internal/platform/postgres"
	redisstore "github.com/Sherry00124/ImChat/internal/platform/redis"
	"github.com/Sherry00124/ImChat/internal/platform/sec"
	"github.com/Sherry00124/ImChat/internal/platform/telemetry"
	"github.com/Sherry00124/ImChat/internal/users/account"
	"github.com/Sherry00124/ImChat/internal/users/purge"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
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
		slog.Duration("history_lookback", cfg.HistoryLookback),
		slog.Bool("retain_foreign_messages", cfg.RetainForeignMessages),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	shutdownTracing, err := telemetry.Setup(startupCtx, telemetry.Config{
		ServiceName:    constants.AppName,
		ServiceVersion: constants.AppVersion,
		Environment:    cfg.Environment,
		Exporter:       cfg.TracesExporter,
		SampleRatio:    cfg.TraceSampleRatio,
		Output:         os.Stderr,
	}, log)
	must(log, err, "initialize tracing")
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("tracing_shutdown_failed", slog.Any("error", err))
		}
	}()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("redis_client_closing")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Verification ─────────────────────────────────────────────
	tokens, err := sec.LoadTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize token service")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	unitOfWork := pgstore.NewUnitOfWork(pool)

	accountRepository := account.NewPostgresRepository(pool)
	groupRepository := group.NewPostgresGroupRepository(pool)
	memberRepository := group.NewPostgresMemberRepository(pool)
	messageRepository := group.NewPostgresMessageRepository(pool)
	friendRepository := friend.NewPostgresRepository(pool)

	accountService := account.NewService(accountRepository, log)

	groupService := group.NewService(group.Dependencies{
		Groups:   groupRepository,
		Members:  memberRepository,
		Messages: messageRepository,
		Profiles: accountRepository,
		Tx:       unitOfWork,
	}, group.VisibilityWindow{Lookback: cfg.HistoryLookback}, log)

	friendService := friend.NewService(friendRepository, accountRepository, unitOfWork, log)

	purgeService := purge.NewService(purge.Dependencies{
		Accounts: accountRepository,
		Groups:   groupRepository,
		Members:  memberRepository,
		Messages: messageRepository,
		Friends:  friendRepository,
		Locker:   redisstore.NewLocker(rdb, constants.RedisPrefixPurgeLock, cfg.PurgeLockTTL),
		Tx:       unitOfWork,
	}, purge.Policy{RetainForeignMessages: cfg.RetainForeignMessages}, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Account:   account.NewHandler(accountService),
		Group:     group.NewHandler(groupService),
		Friend:    friend.NewHandler(friendService),
		Purge:     purge.NewHandler(purgeService),
	})

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the JSON logger every entry point shares.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
