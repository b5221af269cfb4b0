// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package indicio

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mp-gt/dicri-portal/internal/platform/request"
	"github.com/mp-gt/dicri-portal/internal/platform/respond"
)

// Handler exposes evidence routes under /indicios and the type catalogue
// under /tipos-indicio.
type Handler struct {
	service *Service
}

// NewHandler constructs the indicio [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the evidence routes.
func (h *Handler) Register(router chi.Router) {
	router.Get("/", h.handleList)
	router.Post("/", h.handleCreate)

	router.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Put("/", h.handleUpdate)
		r.Delete("/", h.handleDelete)
	})
}

// RegisterNested mounts the aggregate listing inside the parent expediente's
// /{id} route, yielding /expedientes/{id}/indicios.
func (h *Handler) RegisterNested(router chi.Router) {
	router.Get("/", h.handleListByExpediente)
}

// RegisterTipos mounts the read-only type catalogue routes.
func (h *Handler) RegisterTipos(router chi.Router) {
	router.Get("/", h.handleListTipos)
	router.Get("/{id}", h.handleGetTipo)
}

/*
handleList returns evidence items filtered by scene, type, custody state or
active flag.

	GET /indicios?id_escena=10&estado=EN_CUSTODIA
*/
func (h *Handler) handleList(writer http.ResponseWriter, request *http.Request) {
	filters := ListFilters{
		IDEscena:      requestutil.QueryInt(request, "id_escena"),
		IDTipoIndicio: requestutil.QueryInt(request, "id_tipo_indicio"),
		Activo:        requestutil.QueryBool(request, "activo"),
	}
	if raw := request.URL.Query().Get("estado"); raw != "" {
		estado := EstadoIndicio(raw)
		filters.Estado = &estado
	}

	indicios, err := h.service.List(request.Context(), filters)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Indicios obtenidos", indicios)
}

/*
handleListByExpediente returns every evidence item of a case file, across
all of its scenes.

	GET /expedientes/{id}/indicios
*/
func (h *Handler) handleListByExpediente(writer http.ResponseWriter, request *http.Request) {
	expedienteID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	indicios, err := h.service.ListByExpediente(request.Context(), expedienteID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Indicios obtenidos", indicios)
}

/*
handleCreate registers a new evidence item.

	POST /indicios
*/
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

	respond.Created(writer, "Indicio creado", created)
}

/*
handleGet returns a single evidence item with its denormalized context.

	GET /indicios/{id}
*/
func (h *Handler) handleGet(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	indicio, err := h.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Indicio obtenido", indicio)
}

/*
handleUpdate edits an evidence item.

	PUT /indicios/{id}
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

	respond.OK(writer, "Indicio actualizado", nil)
}

/*
handleDelete removes an evidence item.

	DELETE /indicios/{id}
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

	respond.OK(writer, "Indicio eliminado", nil)
}

/*
handleListTipos returns the evidence-type catalogue.

	GET /tipos-indicio?activo=true
*/
func (h *Handler) handleListTipos(writer http.ResponseWriter, request *http.Request) {
	tipos, err := h.service.ListTipos(request.Context(), requestutil.QueryBool(request, "activo"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Tipos de indicio obtenidos", tipos)
}

/*
handleGetTipo returns one catalogue entry.

	GET /tipos-indicio/{id}
*/
func (h *Handler) handleGetTipo(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tipo, err := h.service.GetTipo(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Tipo de indicio obtenido", tipo)
}
