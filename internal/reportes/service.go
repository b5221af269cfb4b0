// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package reportes

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/platform/validate"
	"github.com/mp-gt/dicri-portal/internal/upstream"
)

// RevisionFilters bounds the review-activity report.
type RevisionFilters struct {
	FechaInicio    string
	FechaFin       string
	EstadoRevision string
}

// Service fetches management reports from the backend.
type Service struct {
	api    *upstream.Client
	logger *slog.Logger
}

// NewService constructs the reportes [Service].
func NewService(api *upstream.Client, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// Revision fetches the review-activity report for a date range.
func (s *Service) Revision(ctx context.Context, filters RevisionFilters) ([]RevisionExpediente, error) {

	v := &validate.Validator{}
	if err := v.
		Required("fecha_inicio", filters.FechaInicio).
		Required("fecha_fin", filters.FechaFin).
		Custom("fecha_inicio", !validDate(filters.FechaInicio), "debe tener formato AAAA-MM-DD").
		Custom("fecha_fin", !validDate(filters.FechaFin), "debe tener formato AAAA-MM-DD").
		Err(); err != nil {
		return nil, err
	}
	if filters.FechaFin < filters.FechaInicio {
		return nil, apperr.ValidationError("El rango de fechas es inválido")
	}

	query := url.Values{}
	query.Set("fecha_inicio", filters.FechaInicio)
	query.Set("fecha_fin", filters.FechaFin)
	if filters.EstadoRevision != "" {
		query.Set("estado_revision", filters.EstadoRevision)
	}

	envelope, err := s.api.Get(ctx, "/reportes/revision-expedientes?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var rows []RevisionExpediente
	if err := envelope.DecodeData(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Estadisticas fetches the general workload summary.
func (s *Service) Estadisticas(ctx context.Context) (*Estadisticas, error) {
	envelope, err := s.api.Get(ctx, "/reportes/estadisticas-generales")
	if err != nil {
		return nil, err
	}

	stats := &Estadisticas{}
	if err := envelope.DecodeData(stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// validDate accepts calendar dates in AAAA-MM-DD form.
func validDate(value string) bool {
	if value == "" {
		return false
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}
