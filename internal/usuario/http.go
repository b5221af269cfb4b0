// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package usuario

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mp-gt/dicri-portal/internal/platform/request"
	"github.com/mp-gt/dicri-portal/internal/platform/respond"
)

// Handler exposes user administration under /users. The admin role gate is
// applied where the routes are mounted, covering the whole surface.
type Handler struct {
	service *Service
}

// NewHandler constructs the usuario [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the user administration routes.
func (h *Handler) Register(router chi.Router) {
	router.Get("/", h.handleList)
	router.Post("/", h.handleCreate)

	router.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Put("/", h.handleUpdate)
		r.Delete("/", h.handleDelete)
	})
}

// handleList returns every managed account.
func (h *Handler) handleList(writer http.ResponseWriter, request *http.Request) {
	usuarios, err := h.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "Usuarios obtenidos", usuarios)
}

// handleGet returns one account.
func (h *Handler) handleGet(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	usuario, err := h.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "Usuario obtenido", usuario)
}

// handleCreate provisions an account.
func (h *Handler) handleCreate(writer http.ResponseWriter, request *http.Request) {
	input := CreateInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := h.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, "Usuario creado", created)
}

// handleUpdate edits an account.
func (h *Handler) handleUpdate(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := UpdateInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := h.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "Usuario actualizado", updated)
}

// handleDelete removes an account.
func (h *Handler) handleDelete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "Usuario eliminado", nil)
}
