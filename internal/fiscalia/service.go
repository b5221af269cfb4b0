// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package fiscalia

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/mp-gt/dicri-portal/internal/platform/validate"
	"github.com/mp-gt/dicri-portal/internal/upstream"
)

// Service orchestrates fiscalía operations against the backend.
type Service struct {
	api    *upstream.Client
	logger *slog.Logger
}

// NewService constructs the fiscalía [Service].
func NewService(api *upstream.Client, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// List fetches the fiscalía catalogue, optionally filtered by active flag.
func (s *Service) List(ctx context.Context, activo *bool) ([]Fiscalia, error) {
	path := "/fiscalias"
	if activo != nil {
		path += "?activo=" + strconv.FormatBool(*activo)
	}

	envelope, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var fiscalias []Fiscalia
	if err := envelope.DecodeData(&fiscalias); err != nil {
		return nil, err
	}
	return fiscalias, nil
}

// Get fetches a single fiscalía.
func (s *Service) Get(ctx context.Context, id int) (*Fiscalia, error) {
	envelope, err := s.api.Get(ctx, fmt.Sprintf("/fiscalias/%d", id))
	if err != nil {
		return nil, err
	}

	fiscalia := &Fiscalia{}
	if err := envelope.DecodeData(fiscalia); err != nil {
		return nil, err
	}
	return fiscalia, nil
}

// Create registers a new fiscalía.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Fiscalia, error) {

	v := &validate.Validator{}
	if err := v.Required("nombre_fiscalia", input.NombreFiscalia).Err(); err != nil {
		return nil, err
	}

	envelope, err := s.api.Post(ctx, "/fiscalias", input)
	if err != nil {
		return nil, err
	}

	created := &Fiscalia{}
	if err := envelope.DecodeData(created); err != nil {
		return nil, err
	}
	return created, nil
}

// Update edits a fiscalía.
func (s *Service) Update(ctx context.Context, id int, input UpdateInput) error {
	_, err := s.api.Put(ctx, fmt.Sprintf("/fiscalias/%d", id), input)
	return err
}

// Delete removes a fiscalía.
func (s *Service) Delete(ctx context.Context, id int) error {
	_, err := s.api.Delete(ctx, fmt.Sprintf("/fiscalias/%d", id))
	return err
}
