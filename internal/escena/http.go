// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package escena

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mp-gt/dicri-portal/internal/platform/request"
	"github.com/mp-gt/dicri-portal/internal/platform/respond"
)

// Handler exposes scene routes. Collection routes hang off the parent
// expediente; item routes live under /escenas.
type Handler struct {
	service *Service
}

// NewHandler constructs the escena [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterNested mounts the collection routes inside the parent expediente's
// /{id} route, yielding /expedientes/{id}/escenas.
func (h *Handler) RegisterNested(router chi.Router) {
	router.Get("/", h.handleListByExpediente)
	router.Post("/", h.handleCreate)
}

// Register mounts the item routes under /escenas.
func (h *Handler) Register(router chi.Router) {
	router.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Put("/", h.handleUpdate)
		r.Delete("/", h.handleDelete)
	})
}

/*
handleListByExpediente returns every scene of a case file.

	GET /expedientes/{id}/escenas
*/
func (h *Handler) handleListByExpediente(writer http.ResponseWriter, request *http.Request) {
	expedienteID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	escenas, err := h.service.ListByExpediente(request.Context(), expedienteID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Escenas obtenidas", escenas)
}

/*
handleCreate registers a scene on the case file.

	POST /expedientes/{id}/escenas
*/
func (h *Handler) handleCreate(writer http.ResponseWriter, request *http.Request) {
	expedienteID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := CreateInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := h.service.CreateForExpediente(request.Context(), expedienteID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Escena creada", created)
}

/*
handleGet returns a single scene.

	GET /escenas/{id}
*/
func (h *Handler) handleGet(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	escena, err := h.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Escena obtenida", escena)
}

/*
handleUpdate edits a scene.

	PUT /escenas/{id}
*/
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

	respond.OK(writer, "Escena actualizada", nil)
}

/*
handleDelete removes a scene.

	DELETE /escenas/{id}
*/
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

	respond.OK(writer, "Escena eliminada", nil)
}
