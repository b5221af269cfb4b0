// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

// Package api contains the health check handlers for liveness and readiness probes.
package api

import (
	"log/slog"
	"net/http"

	"github.com/mp-gt/dicri-portal/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool backing the audit trail.
	CheckDatabase func() error

	// CheckCache pings the Redis client backing the session store.
	CheckCache func() error

	// CheckUpstream probes the DICRI backend API for reachability.
	CheckUpstream func() error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, "ok", map[string]string{"status": "ok"})
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	type checkResult struct {
		Name  string `json:"name"`
		IsOK  bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	checks := []struct {
		name string
		run  func() error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
		{"dicri-api", handler.dependencies.CheckUpstream},
	}

	results := make([]checkResult, 0, len(checks))
	isSystemReady := true

	for _, check := range checks {
		if check.run == nil {
			continue
		}
		result := checkResult{Name: check.name, IsOK: true}
		if err := check.run(); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed",
				slog.String("dependency", check.name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	responseStatus := "ready"
	httpStatus := http.StatusOK
	if !isSystemReady {
		responseStatus = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.Envelope{
		Success: isSystemReady,
		Message: responseStatus,
		Data: map[string]any{
			"status": responseStatus,
			"checks": results,
		},
	})
}
