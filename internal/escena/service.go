// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package escena

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mp-gt/dicri-portal/internal/expediente"
	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/platform/validate"
	"github.com/mp-gt/dicri-portal/internal/upstream"
)

// Service orchestrates scene operations against the backend.
type Service struct {
	api    *upstream.Client
	logger *slog.Logger
}

// NewService constructs the escena [Service].
func NewService(api *upstream.Client, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// ListByExpediente fetches every scene of a case file.
func (s *Service) ListByExpediente(ctx context.Context, expedienteID int) ([]Escena, error) {
	envelope, err := s.api.Get(ctx, fmt.Sprintf("/expedientes/%d/escenas", expedienteID))
	if err != nil {
		return nil, err
	}

	var escenas []Escena
	if err := envelope.DecodeData(&escenas); err != nil {
		return nil, err
	}
	return escenas, nil
}

// CreateForExpediente registers a new scene on a case file, provided the
// case file is still editable.
func (s *Service) CreateForExpediente(ctx context.Context, expedienteID int, input CreateInput) (*Escena, error) {

	v := &validate.Validator{}
	if err := v.
		Required("nombre_escena", input.NombreEscena).
		Required("fecha_hora_inicio", input.FechaHoraInicio).
		Err(); err != nil {
		return nil, err
	}

	if err := s.requireEditable(ctx, expedienteID); err != nil {
		return nil, err
	}

	input.IDInvestigacion = expedienteID
	envelope, err := s.api.Post(ctx, fmt.Sprintf("/expedientes/%d/escenas", expedienteID), input)
	if err != nil {
		return nil, err
	}

	created := &Escena{}
	if err := envelope.DecodeData(created); err != nil {
		return nil, err
	}
	return created, nil
}

// Get fetches a single scene.
func (s *Service) Get(ctx context.Context, id int) (*Escena, error) {
	envelope, err := s.api.Get(ctx, fmt.Sprintf("/escenas/%d", id))
	if err != nil {
		return nil, err
	}

	escena := &Escena{}
	if err := envelope.DecodeData(escena); err != nil {
		return nil, err
	}
	return escena, nil
}

// Update edits a scene while its parent case file is editable.
func (s *Service) Update(ctx context.Context, id int, input UpdateInput) error {
	escena, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireEditable(ctx, escena.IDInvestigacion); err != nil {
		return err
	}

	_, err = s.api.Put(ctx, fmt.Sprintf("/escenas/%d", id), input)
	return err
}

// Delete removes a scene while its parent case file is editable.
func (s *Service) Delete(ctx context.Context, id int) error {
	escena, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireEditable(ctx, escena.IDInvestigacion); err != nil {
		return err
	}

	_, err = s.api.Delete(ctx, fmt.Sprintf("/escenas/%d", id))
	return err
}

// requireEditable fails with 409 when the parent expediente is frozen.
func (s *Service) requireEditable(ctx context.Context, expedienteID int) error {
	envelope, err := s.api.Get(ctx, fmt.Sprintf("/expedientes/%d", expedienteID))
	if err != nil {
		return err
	}

	parent := &expediente.Expediente{}
	if err := envelope.DecodeData(parent); err != nil {
		return err
	}
	if !parent.IsEditable() {
		return apperr.Conflict("El expediente no admite cambios de escenas en su estado actual")
	}
	return nil
}
