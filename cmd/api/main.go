// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Stockify HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build token and password primitives.
//  7. Wire repositories, services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stockify/internal/api"
	"github.com/taibuivan/stockify/internal/inventory/category"
	"github.com/taibuivan/stockify/internal/inventory/order"
	"github.com/taibuivan/stockify/internal/inventory/stock"
	"github.com/taibuivan/stockify/internal/inventory/supplier"
	"github.com/taibuivan/stockify/internal/platform/config"
	"github.com/taibuivan/stockify/internal/platform/constants"
	"github.com/taibuivan/stockify/internal/platform/metrics"
	"github.com/taibuivan/stockify/internal/platform/middleware"
	"github.com/taibuivan/stockify/internal/platform/migration"
	pgstore "github.com/taibuivan/stockify/internal/platform/postgres"
	redisstore "github.com/taibuivan/stockify/internal/platform/redis"
	"github.com/taibuivan/stockify/internal/platform/sec"
	"github.com/taibuivan/stockify/internal/users/account"
	"github.com/taibuivan/stockify/internal/users/auth"
	"github.com/taibuivan/stockify/internal/users/role"
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
		slog.Bool("revocation_check", cfg.SessionRevocationCheck),
	)

	// Root context for startup. A 30s deadline surfaces misconfiguration
	// instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security Primitives ────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, cfg.JWTExpiresIn)
	must(log, err, "initialize token service")

	hasher, err := sec.NewPasswordHasher(cfg.BcryptCost)
	must(log, err, "initialize password hasher")

	telemetry := metrics.New()
	telemetry.RegisterPool(pool)

	// The revocation list is opt-in. A nil interface disables both the
	// writes on logout and the lookups on every request.
	var revocations middleware.RevocationChecker
	authOptions := []auth.Option{
		auth.WithObserver(telemetry),
		auth.WithResetThrottle(auth.NewResetThrottle(rdb, auth.ResetRequestLimit, auth.ResetRequestWindow)),
	}
	if cfg.SessionRevocationCheck {
		store := auth.NewRevocationStore(rdb, cfg.JWTExpiresIn)
		revocations = store
		authOptions = append(authOptions, auth.WithRevoker(store))
	}

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	handlers := wire(pool, cfg, tokens, hasher, telemetry, authOptions)

	handlers.Liveness, handlers.Readiness = api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	})
	handlers.Metrics = telemetry.Handler()
	handlers.Dashboard = http.FileServer(http.Dir(cfg.DashboardDir))

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, api.Security{
		Verifier:     tokens,
		Revocations:  revocations,
		GuardMetrics: telemetry,
		Instrument:   telemetry.Middleware,
	}, handlers)

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

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// wire builds every repository, service and handler of the API.
func wire(
	pool *pgxpool.Pool,
	cfg *config.Config,
	tokens *sec.TokenService,
	hasher *sec.PasswordHasher,
	telemetry *metrics.Metrics,
	authOptions []auth.Option,
) api.Handlers {
	// Roles first: the checker gates every other resource.
	roleRepository := role.NewPostgresRepository(pool)
	checker := role.NewChecker(roleRepository, cfg.PermissionCacheTTL, telemetry)
	roleService := role.NewService(roleRepository, checker)

	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewSessionRepository(pool),
		auth.NewResetTokenRepository(pool),
		tokens,
		hasher,
		auth.NewLogNotifier(cfg.ResetURLBase, cfg.IsDevelopment()),
		authOptions...,
	)

	accountService := account.NewService(account.NewPostgresRepository(pool), hasher, checker)

	return api.Handlers{
		Auth:       auth.NewHandler(authService),
		Roles:      role.NewHandler(roleService, checker),
		Users:      account.NewHandler(accountService, checker),
		Categories: category.NewHandler(category.NewService(category.NewPostgresRepository(pool)), checker),
		Suppliers:  supplier.NewHandler(supplier.NewService(supplier.NewPostgresRepository(pool)), checker),
		Stock:      stock.NewHandler(stock.NewService(stock.NewPostgresRepository(pool)), checker),
		Orders:     order.NewHandler(order.NewService(order.NewPostgresRepository(pool)), checker),
	}
}

// newLogger returns the JSON logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
