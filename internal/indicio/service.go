// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package indicio

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/platform/validate"
	"github.com/mp-gt/dicri-portal/internal/upstream"
)

// Service orchestrates evidence operations against the backend.
type Service struct {
	api    *upstream.Client
	logger *slog.Logger
}

// NewService constructs the indicio [Service].
func NewService(api *upstream.Client, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// List fetches evidence items matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Indicio, error) {

	query := url.Values{}
	if filters.IDEscena != nil {
		query.Set("id_escena", strconv.Itoa(*filters.IDEscena))
	}
	if filters.IDTipoIndicio != nil {
		query.Set("id_tipo_indicio", strconv.Itoa(*filters.IDTipoIndicio))
	}
	if filters.Estado != nil {
		if !filters.Estado.Valid() {
			return nil, apperr.ValidationError("Estado de indicio desconocido")
		}
		query.Set("estado", string(*filters.Estado))
	}
	if filters.Activo != nil {
		query.Set("activo", strconv.FormatBool(*filters.Activo))
	}

	path := "/indicios"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	envelope, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var indicios []Indicio
	if err := envelope.DecodeData(&indicios); err != nil {
		return nil, err
	}
	return indicios, nil
}

// ListByExpediente collects every evidence item of a case file by walking
// its scenes. The backend keys indicios by escena, so the aggregate view is
// assembled here, one scene at a time.
func (s *Service) ListByExpediente(ctx context.Context, expedienteID int) ([]Indicio, error) {
	envelope, err := s.api.Get(ctx, fmt.Sprintf("/expedientes/%d/escenas", expedienteID))
	if err != nil {
		return nil, err
	}

	var escenas []struct {
		IDEscena int `json:"id_escena"`
	}
	if err := envelope.DecodeData(&escenas); err != nil {
		return nil, err
	}

	indicios := make([]Indicio, 0)
	for _, escena := range escenas {
		id := escena.IDEscena
		batch, err := s.List(ctx, ListFilters{IDEscena: &id})
		if err != nil {
			return nil, err
		}
		indicios = append(indicios, batch...)
	}
	return indicios, nil
}

// Get fetches a single evidence item.
func (s *Service) Get(ctx context.Context, id int) (*Indicio, error) {
	envelope, err := s.api.Get(ctx, fmt.Sprintf("/indicios/%d", id))
	if err != nil {
		return nil, err
	}

	indicio := &Indicio{}
	if err := envelope.DecodeData(indicio); err != nil {
		return nil, err
	}
	return indicio, nil
}

// Create registers a new evidence item.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Indicio, error) {

	v := &validate.Validator{}
	if err := v.
		Required("codigo_indicio", input.CodigoIndicio).
		Required("descripcion_corta", input.DescripcionCorta).
		Positive("id_escena", input.IDEscena).
		Positive("id_tipo_indicio", input.IDTipoIndicio).
		Err(); err != nil {
		return nil, err
	}

	envelope, err := s.api.Post(ctx, "/indicios", input)
	if err != nil {
		return nil, err
	}

	created := &Indicio{}
	if err := envelope.DecodeData(created); err != nil {
		return nil, err
	}
	return created, nil
}

// Update edits an evidence item. An explicit custody state must be one of
// the known values.
func (s *Service) Update(ctx context.Context, id int, input UpdateInput) error {
	if input.EstadoActual != nil && !input.EstadoActual.Valid() {
		return apperr.ValidationError("Estado de indicio desconocido")
	}

	_, err := s.api.Put(ctx, fmt.Sprintf("/indicios/%d", id), input)
	return err
}

// Delete removes an evidence item.
func (s *Service) Delete(ctx context.Context, id int) error {
	_, err := s.api.Delete(ctx, fmt.Sprintf("/indicios/%d", id))
	return err
}

// # Type Catalogue

// ListTipos fetches the evidence-type catalogue.
func (s *Service) ListTipos(ctx context.Context, activo *bool) ([]TipoIndicio, error) {
	path := "/tipos-indicio"
	if activo != nil {
		path += "?activo=" + strconv.FormatBool(*activo)
	}

	envelope, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var tipos []TipoIndicio
	if err := envelope.DecodeData(&tipos); err != nil {
		return nil, err
	}
	return tipos, nil
}

// GetTipo fetches one catalogue entry.
func (s *Service) GetTipo(ctx context.Context, id int) (*TipoIndicio, error) {
	envelope, err := s.api.Get(ctx, fmt.Sprintf("/tipos-indicio/%d", id))
	if err != nil {
		return nil, err
	}

	tipo := &TipoIndicio{}
	if err := envelope.DecodeData(tipo); err != nil {
		return nil, err
	}
	return tipo, nil
}
