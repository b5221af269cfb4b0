// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package expediente

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mp-gt/dicri-portal/internal/platform/constants"
	requestutil "github.com/mp-gt/dicri-portal/internal/platform/request"
	"github.com/mp-gt/dicri-portal/internal/platform/respond"
	"github.com/mp-gt/dicri-portal/internal/session"
	"github.com/mp-gt/dicri-portal/pkg/pagination"
)

// Handler exposes the expediente workflow under /expedientes.
type Handler struct {
	service *Service
}

// NewHandler constructs the expediente [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the expediente routes onto the given router. All routes
// assume [session.RequireSession] is already in the chain; the review
// decisions are additionally gated to reviewer roles.
//
// subresources, when non-nil, is invoked inside the /{id} route so sibling
// packages can hang their collections (escenas) off a case file without this
// package importing them.
func (h *Handler) Register(router chi.Router, subresources func(chi.Router)) {
	router.Get("/", h.handleList)
	router.Post("/", h.handleCreate)

	router.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Put("/", h.handleUpdate)
		r.Delete("/", h.handleDelete)
		r.Post("/enviar-revision", h.handleEnviarRevision)
		r.Get("/resumen-revision", h.handleResumen)

		r.Group(func(review chi.Router) {
			review.Use(session.RequireRole(constants.RoleAdmin, constants.RoleCoordinador))
			review.Post("/aprobar", h.handleAprobar)
			review.Post("/rechazar", h.handleRechazar)
		})

		if subresources != nil {
			subresources(r)
		}
	})
}

/*
handleList returns expedientes filtered and paginated.

	GET /expedientes?estado_revision=PENDIENTE_REVISION&id_fiscalia=3&page=1&pageSize=20
*/
func (h *Handler) handleList(writer http.ResponseWriter, request *http.Request) {
	filters := ListFilters{
		IDFiscalia:        requestutil.QueryInt(request, "id_fiscalia"),
		IDUsuarioRegistro: requestutil.QueryInt(request, "id_usuario_registro"),
		Activo:            requestutil.QueryBool(request, "activo"),
	}
	if raw := request.URL.Query().Get("estado_revision"); raw != "" {
		estado := EstadoRevision(raw)
		filters.Estado = &estado
	}

	params := pagination.FromRequest(request)
	items, meta, err := h.service.List(request.Context(), filters, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, "Expedientes obtenidos", items, meta)
}

/*
handleCreate registers a new expediente.

	POST /expedientes
*/
func (h *Handler) handleCreate(writer http.ResponseWriter, request *http.Request) {
	input := CreateInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	exp, err := h.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Expediente creado", exp)
}

/*
handleGet returns a single expediente.

	GET /expedientes/{id}
*/
func (h *Handler) handleGet(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	exp, err := h.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Expediente obtenido", exp)
}

/*
handleUpdate edits an expediente while it is still editable.

	PUT /expedientes/{id}
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

	respond.OK(writer, "Expediente actualizado", nil)
}

/*
handleDelete removes an empty, unreviewed expediente.

	DELETE /expedientes/{id}
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

	respond.OK(writer, "Expediente eliminado", nil)
}

/*
handleEnviarRevision queues the expediente for review.

	POST /expedientes/{id}/enviar-revision
*/
func (h *Handler) handleEnviarRevision(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.service.EnviarRevision(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Expediente enviado a revisión", nil)
}

/*
handleResumen returns the review detail summary.

	GET /expedientes/{id}/resumen-revision
*/
func (h *Handler) handleResumen(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var roles []string
	if sess := session.FromContext(request.Context()); sess != nil {
		roles = sess.Roles
	}

	resumen, err := h.service.Resumen(request.Context(), id, roles)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Resumen de revisión obtenido", resumen)
}

/*
handleAprobar approves a pending expediente. Reviewer roles only.

	POST /expedientes/{id}/aprobar
*/
func (h *Handler) handleAprobar(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.service.Aprobar(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Expediente aprobado", nil)
}

/*
handleRechazar rejects a pending expediente with a justification. Reviewer
roles only.

	POST /expedientes/{id}/rechazar
	{"justificacion": "..."}
*/
func (h *Handler) handleRechazar(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := struct {
		Justificacion string `json:"justificacion"`
	}{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.service.Rechazar(request.Context(), id, input.Justificacion); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Expediente rechazado", nil)
}
