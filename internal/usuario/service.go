// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package usuario

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mp-gt/dicri-portal/internal/platform/validate"
	"github.com/mp-gt/dicri-portal/internal/upstream"
)

// Service orchestrates user administration against the backend.
type Service struct {
	api    *upstream.Client
	logger *slog.Logger
}

// NewService constructs the usuario [Service].
func NewService(api *upstream.Client, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// List fetches every managed account.
func (s *Service) List(ctx context.Context) ([]Usuario, error) {
	envelope, err := s.api.Get(ctx, "/users")
	if err != nil {
		return nil, err
	}

	var usuarios []Usuario
	if err := envelope.DecodeData(&usuarios); err != nil {
		return nil, err
	}
	return usuarios, nil
}

// Get fetches one account.
func (s *Service) Get(ctx context.Context, id int) (*Usuario, error) {
	envelope, err := s.api.Get(ctx, fmt.Sprintf("/users/%d", id))
	if err != nil {
		return nil, err
	}

	usuario := &Usuario{}
	if err := envelope.DecodeData(usuario); err != nil {
		return nil, err
	}
	return usuario, nil
}

// Create provisions a new account.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Usuario, error) {

	v := &validate.Validator{}
	if err := v.
		Required("nombre_usuario", input.NombreUsuario).
		Required("nombre", input.Nombre).
		Required("apellido", input.Apellido).
		Required("email", input.Email).
		Required("clave", input.Clave).
		Err(); err != nil {
		return nil, err
	}

	envelope, err := s.api.Post(ctx, "/users", input)
	if err != nil {
		return nil, err
	}

	created := &Usuario{}
	if err := envelope.DecodeData(created); err != nil {
		return nil, err
	}
	return created, nil
}

// Update edits an account.
func (s *Service) Update(ctx context.Context, id int, input UpdateInput) (*Usuario, error) {
	envelope, err := s.api.Put(ctx, fmt.Sprintf("/users/%d", id), input)
	if err != nil {
		return nil, err
	}

	updated := &Usuario{}
	if err := envelope.DecodeData(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id int) error {
	_, err := s.api.Delete(ctx, fmt.Sprintf("/users/%d", id))
	return err
}
