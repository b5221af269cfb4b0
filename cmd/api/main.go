// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

// Command api is the entry point for the DICRI portal gateway.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (audit trail) and Redis (session store).
//  4. Run database migrations (idempotent).
//  5. Construct the DICRI backend client and wire its 401 hook to the
//     session invalidator.
//  6. Wire domain services and HTTP handlers.
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

	"github.com/mp-gt/dicri-portal/internal/api"
	"github.com/mp-gt/dicri-portal/internal/audit"
	"github.com/mp-gt/dicri-portal/internal/escena"
	"github.com/mp-gt/dicri-portal/internal/expediente"
	"github.com/mp-gt/dicri-portal/internal/fiscalia"
	"github.com/mp-gt/dicri-portal/internal/indicio"
	"github.com/mp-gt/dicri-portal/internal/platform/config"
	"github.com/mp-gt/dicri-portal/internal/platform/constants"
	"github.com/mp-gt/dicri-portal/internal/platform/migration"
	pgstore "github.com/mp-gt/dicri-portal/internal/platform/postgres"
	redisstore "github.com/mp-gt/dicri-portal/internal/platform/redis"
	"github.com/mp-gt/dicri-portal/internal/reportes"
	"github.com/mp-gt/dicri-portal/internal/session"
	"github.com/mp-gt/dicri-portal/internal/upstream"
	"github.com/mp-gt/dicri-portal/internal/usuario"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("upstream", cfg.UpstreamBaseURL),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL (audit trail) ───────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis (session store) ──────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Backend Client & Session Service ───────────────────────────────
	apiClient := upstream.NewClient(cfg.UpstreamBaseURL, log)
	recorder := audit.NewPGRecorder(pool, log)

	sessionStore := session.NewRedisStore(rdb, cfg.SessionTTL)
	sessionService := session.NewService(sessionStore, apiClient, recorder, log, cfg.VerifyMaxAge, cfg.SessionTTL)

	// Any backend 401, on any endpoint, tears down the offending session.
	apiClient.SetUnauthorizedHook(sessionService.Invalidate)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckUpstream: func() error {
			probeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return apiClient.Healthy(probeCtx)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	expedienteService := expediente.NewService(apiClient, recorder, log)
	escenaService := escena.NewService(apiClient, log)
	indicioService := indicio.NewService(apiClient, log)
	fiscaliaService := fiscalia.NewService(apiClient, log)
	reportesService := reportes.NewService(apiClient, log)
	usuarioService := usuario.NewService(apiClient, log)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       session.NewHandler(sessionService, cfg.IsProduction()),
		Expediente: expediente.NewHandler(expedienteService),
		Escena:     escena.NewHandler(escenaService),
		Indicio:    indicio.NewHandler(indicioService),
		Fiscalia:   fiscalia.NewHandler(fiscaliaService),
		Reportes:   reportes.NewHandler(reportesService),
		Usuario:    usuario.NewHandler(usuarioService),
	}

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, sessionStore, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
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
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
