// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package reportes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mp-gt/dicri-portal/internal/platform/respond"
)

// Handler exposes the reports under /reportes. The reviewer role gate is
// applied where the routes are mounted.
type Handler struct {
	service *Service
}

// NewHandler constructs the reportes [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the report routes.
func (h *Handler) Register(router chi.Router) {
	router.Get("/revision-expedientes", h.handleRevision)
	router.Get("/estadisticas-generales", h.handleEstadisticas)
}

/*
handleRevision returns the review-activity report for a date range.

	GET /reportes/revision-expedientes?fecha_inicio=2026-01-01&fecha_fin=2026-01-31&estado_revision=RECHAZADO
*/
func (h *Handler) handleRevision(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	rows, err := h.service.Revision(request.Context(), RevisionFilters{
		FechaInicio:    query.Get("fecha_inicio"),
		FechaFin:       query.Get("fecha_fin"),
		EstadoRevision: query.Get("estado_revision"),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Reporte de revisión obtenido", rows)
}

/*
handleEstadisticas returns the general workload summary.

	GET /reportes/estadisticas-generales
*/
func (h *Handler) handleEstadisticas(writer http.ResponseWriter, request *http.Request) {
	stats, err := h.service.Estadisticas(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Estadísticas generales obtenidas", stats)
}
