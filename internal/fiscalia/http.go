// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package fiscalia

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mp-gt/dicri-portal/internal/platform/constants"
	requestutil "github.com/mp-gt/dicri-portal/internal/platform/request"
	"github.com/mp-gt/dicri-portal/internal/platform/respond"
	"github.com/mp-gt/dicri-portal/internal/session"
)

// Handler exposes the fiscalía catalogue under /fiscalias.
type Handler struct {
	service *Service
}

// NewHandler constructs the fiscalía [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the fiscalía routes. Writes require the admin role.
func (h *Handler) Register(router chi.Router) {
	router.Get("/", h.handleList)
	router.Get("/{id}", h.handleGet)

	router.Group(func(admin chi.Router) {
		admin.Use(session.RequireRole(constants.RoleAdmin))
		admin.Post("/", h.handleCreate)
		admin.Put("/{id}", h.handleUpdate)
		admin.Delete("/{id}", h.handleDelete)
	})
}

// handleList returns the catalogue, optionally only active offices.
func (h *Handler) handleList(writer http.ResponseWriter, request *http.Request) {
	fiscalias, err := h.service.List(request.Context(), requestutil.QueryBool(request, "activo"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "Fiscalías obtenidas", fiscalias)
}

// handleGet returns one fiscalía.
func (h *Handler) handleGet(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fiscalia, err := h.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "Fiscalía obtenida", fiscalia)
}

// handleCreate registers a fiscalía.
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
	respond.Created(writer, "Fiscalía creada", created)
}

// handleUpdate edits a fiscalía.
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

	if err := h.service.Update(request.Context(), id, input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "Fiscalía actualizada", nil)
}

// handleDelete removes a fiscalía.
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
	respond.OK(writer, "Fiscalía eliminada", nil)
}
