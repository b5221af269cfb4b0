// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mp-gt/dicri-portal/internal/escena"
	"github.com/mp-gt/dicri-portal/internal/expediente"
	"github.com/mp-gt/dicri-portal/internal/fiscalia"
	"github.com/mp-gt/dicri-portal/internal/indicio"
	"github.com/mp-gt/dicri-portal/internal/platform/config"
	"github.com/mp-gt/dicri-portal/internal/platform/constants"
	"github.com/mp-gt/dicri-portal/internal/platform/middleware"
	"github.com/mp-gt/dicri-portal/internal/reportes"
	"github.com/mp-gt/dicri-portal/internal/session"
	"github.com/mp-gt/dicri-portal/internal/usuario"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the session lifecycle (login, verify, logout, me).
	Auth *session.Handler

	// Expediente handles the case-file review workflow.
	Expediente *expediente.Handler

	// Escena handles crime scenes attached to case files.
	Escena *escena.Handler

	// Indicio handles evidence items and the tipos-indicio catalogue.
	Indicio *indicio.Handler

	// Fiscalia handles the prosecutor-office catalogue.
	Fiscalia *fiscalia.Handler

	// Reportes handles the management reports.
	Reportes *reportes.Handler

	// Usuario handles user administration.
	Usuario *usuario.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// The session loader runs on every route so even /auth/login sees an
// existing session when one is presented; the Require* guards scope what
// each group demands.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, store session.Store, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)
	r.Use(session.SessionLoader(store, log))

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		api.Group(func(protected chi.Router) {
			protected.Use(session.RequireSession)

			protected.Route("/expedientes", func(r chi.Router) {
				h.Expediente.Register(r, func(item chi.Router) {
					item.Route("/escenas", h.Escena.RegisterNested)
					item.Route("/indicios", h.Indicio.RegisterNested)
				})
			})
			protected.Route("/escenas", h.Escena.Register)
			protected.Route("/indicios", h.Indicio.Register)
			protected.Route("/tipos-indicio", h.Indicio.RegisterTipos)
			protected.Route("/fiscalias", h.Fiscalia.Register)

			protected.Route("/reportes", func(r chi.Router) {
				r.Use(session.RequireRole(constants.RoleAdmin, constants.RoleCoordinador))
				h.Reportes.Register(r)
			})

			protected.Route("/users", func(r chi.Router) {
				r.Use(session.RequireRole(constants.RoleAdmin))
				h.Usuario.Register(r)
			})
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
