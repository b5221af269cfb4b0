// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package expediente

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/mp-gt/dicri-portal/internal/audit"
	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/platform/constants"
	"github.com/mp-gt/dicri-portal/internal/platform/validate"
	"github.com/mp-gt/dicri-portal/internal/session"
	"github.com/mp-gt/dicri-portal/internal/upstream"
	"github.com/mp-gt/dicri-portal/pkg/pagination"
)

// CreateInput is the payload for registering a new expediente.
type CreateInput struct {
	CodigoCaso        string `json:"codigo_caso"`
	NombreCaso        string `json:"nombre_caso"`
	FechaInicio       string `json:"fecha_inicio"`
	IDFiscalia        int    `json:"id_fiscalia"`
	DescripcionHechos string `json:"descripcion_hechos,omitempty"`
}

// UpdateInput is the payload for editing an expediente. Nil fields are
// omitted from the upstream call so the backend keeps current values.
type UpdateInput struct {
	NombreCaso        *string `json:"nombre_caso,omitempty"`
	FechaInicio       *string `json:"fecha_inicio,omitempty"`
	IDFiscalia        *int    `json:"id_fiscalia,omitempty"`
	DescripcionHechos *string `json:"descripcion_hechos,omitempty"`
	Activo            *bool   `json:"activo,omitempty"`
}

// ListFilters narrows the expediente listing. Nil fields mean "no filter".
type ListFilters struct {
	Estado            *EstadoRevision
	IDFiscalia        *int
	IDUsuarioRegistro *int
	Activo            *bool
}

// ResumenRevision is the detail summary a reviewer sees before deciding:
// the case file, how much evidence hangs off it and which actions the
// current user may take.
type ResumenRevision struct {
	Expediente *Expediente `json:"expediente"`
	Escenas    int         `json:"escenas"`
	Indicios   int         `json:"indicios"`
	Acciones   []Accion    `json:"acciones"`
}

// Service orchestrates expediente operations against the backend.
type Service struct {
	api    *upstream.Client
	audit  audit.Recorder
	logger *slog.Logger
}

// NewService constructs the expediente [Service].
func NewService(api *upstream.Client, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{api: api, audit: recorder, logger: logger}
}

// List fetches expedientes matching the filters and paginates locally.
// The backend list endpoint returns the full filtered set; pagination is a
// presentation concern the portal applies on top.
func (s *Service) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]Expediente, pagination.Meta, error) {

	query := url.Values{}
	if filters.Estado != nil {
		if !filters.Estado.Valid() {
			return nil, pagination.Meta{}, apperr.ValidationError("Estado de revisión desconocido")
		}
		query.Set("estado_revision", string(*filters.Estado))
	}
	if filters.IDFiscalia != nil {
		query.Set("id_fiscalia", strconv.Itoa(*filters.IDFiscalia))
	}
	if filters.IDUsuarioRegistro != nil {
		query.Set("id_usuario_registro", strconv.Itoa(*filters.IDUsuarioRegistro))
	}
	if filters.Activo != nil {
		query.Set("activo", strconv.FormatBool(*filters.Activo))
	}

	path := "/expedientes"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	envelope, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	var expedientes []Expediente
	if err := envelope.DecodeData(&expedientes); err != nil {
		return nil, pagination.Meta{}, err
	}

	meta := pagination.NewMeta(params.Page, params.PageSize, len(expedientes))
	return pagination.Slice(expedientes, params), meta, nil
}

// Get fetches a single expediente.
func (s *Service) Get(ctx context.Context, id int) (*Expediente, error) {
	envelope, err := s.api.Get(ctx, fmt.Sprintf("/expedientes/%d", id))
	if err != nil {
		return nil, err
	}

	exp := &Expediente{}
	if err := envelope.DecodeData(exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// Create registers a new expediente.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Expediente, error) {

	v := &validate.Validator{}
	if err := v.
		Required("codigo_caso", input.CodigoCaso).
		Required("nombre_caso", input.NombreCaso).
		Required("fecha_inicio", input.FechaInicio).
		Positive("id_fiscalia", input.IDFiscalia).
		Err(); err != nil {
		return nil, err
	}

	envelope, err := s.api.Post(ctx, "/expedientes", input)
	if err != nil {
		return nil, err
	}

	exp := &Expediente{}
	if err := envelope.DecodeData(exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// Update edits an expediente's content. Frozen states (pending review,
// approved) reject the edit before any upstream traffic.
func (s *Service) Update(ctx context.Context, id int, input UpdateInput) error {

	exp, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !exp.IsEditable() {
		return apperr.Conflict("El expediente no puede editarse en su estado actual")
	}

	_, err = s.api.Put(ctx, fmt.Sprintf("/expedientes/%d", id), input)
	return err
}

// Delete removes an expediente, allowed only while it is still an empty
// shell: in registration, without escenas, indicios or review history.
//
// The emptiness checks run in sequence against the backend; any escena or
// indicio found short-circuits the deletion.
func (s *Service) Delete(ctx context.Context, id int) error {

	exp, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if exp.EstadoRevisionDicri != EstadoEnRegistro {
		return apperr.Conflict("Sólo expedientes en registro pueden eliminarse")
	}
	if exp.JustificacionRevision != nil && strings.TrimSpace(*exp.JustificacionRevision) != "" {
		return apperr.Conflict("El expediente tiene historial de revisión y no puede eliminarse")
	}

	counts, err := s.ChildCounts(ctx, id)
	if err != nil {
		return err
	}
	if counts.Escenas > 0 || counts.Indicios > 0 {
		return apperr.Conflict("El expediente tiene escenas o indicios asociados y no puede eliminarse")
	}

	if _, err := s.api.Delete(ctx, fmt.Sprintf("/expedientes/%d", id)); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Entry{
		Event:        audit.EventEliminar,
		Actor:        actorFrom(ctx),
		ExpedienteID: id,
	})
	return nil
}

// EnviarRevision moves the expediente into the review queue.
func (s *Service) EnviarRevision(ctx context.Context, id int) error {

	exp, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !exp.CanSubmit() {
		return apperr.Conflict("El expediente no puede enviarse a revisión en su estado actual")
	}

	if _, err := s.api.Post(ctx, fmt.Sprintf("/expedientes/%d/enviar-revision", id), nil); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Entry{
		Event:        audit.EventEnviarRevision,
		Actor:        actorFrom(ctx),
		ExpedienteID: id,
	})
	return nil
}

// Aprobar approves a pending expediente.
func (s *Service) Aprobar(ctx context.Context, id int) error {

	exp, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !exp.CanReview() {
		return apperr.Conflict("Sólo expedientes pendientes de revisión pueden aprobarse")
	}

	if _, err := s.api.Post(ctx, fmt.Sprintf("/expedientes/%d/aprobar", id), nil); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Entry{
		Event:        audit.EventAprobar,
		Actor:        actorFrom(ctx),
		ExpedienteID: id,
	})
	return nil
}

// Rechazar rejects a pending expediente with a justification for the
// registering technician.
func (s *Service) Rechazar(ctx context.Context, id int, justificacion string) error {

	v := &validate.Validator{}
	if err := v.
		Required("justificacion", justificacion).
		MinLen("justificacion", justificacion, constants.MinJustificacionLen).
		Err(); err != nil {
		return err
	}

	exp, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !exp.CanReview() {
		return apperr.Conflict("Sólo expedientes pendientes de revisión pueden rechazarse")
	}

	body := map[string]string{"justificacion": strings.TrimSpace(justificacion)}
	if _, err := s.api.Post(ctx, fmt.Sprintf("/expedientes/%d/rechazar", id), body); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Entry{
		Event:        audit.EventRechazar,
		Actor:        actorFrom(ctx),
		ExpedienteID: id,
		Detail:       map[string]any{"justificacion": strings.TrimSpace(justificacion)},
	})
	return nil
}

// Resumen assembles the review detail: case file, evidence counts and the
// actions available to the given role set.
func (s *Service) Resumen(ctx context.Context, id int, roles []string) (*ResumenRevision, error) {

	exp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.ChildCounts(ctx, id)
	if err != nil {
		// Counts are informative here; a partial failure degrades to zeros
		// rather than hiding the whole detail view.
		s.logger.WarnContext(ctx, "child_counts_unavailable",
			slog.Int("id_investigacion", id),
			slog.Any("error", err),
		)
		counts = ChildCounts{}
	}

	return &ResumenRevision{
		Expediente: exp,
		Escenas:    counts.Escenas,
		Indicios:   counts.Indicios,
		Acciones:   AllowedActions(exp, roles, counts),
	}, nil
}

// ChildCounts counts the escenas of an expediente and the indicios across
// those escenas.
func (s *Service) ChildCounts(ctx context.Context, id int) (ChildCounts, error) {

	envelope, err := s.api.Get(ctx, fmt.Sprintf("/expedientes/%d/escenas", id))
	if err != nil {
		return ChildCounts{}, err
	}

	// Only ids are needed; the rest of each record is irrelevant here.
	var escenas []struct {
		IDEscena int `json:"id_escena"`
	}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &escenas); err != nil {
			return ChildCounts{}, apperr.Upstream("Respuesta del servicio DICRI malformada", err)
		}
	}

	counts := ChildCounts{Escenas: len(escenas)}
	for _, escena := range escenas {
		indicioEnvelope, err := s.api.Get(ctx, fmt.Sprintf("/indicios?id_escena=%d", escena.IDEscena))
		if err != nil {
			return ChildCounts{}, err
		}
		var indicios []json.RawMessage
		if len(indicioEnvelope.Data) > 0 {
			if err := json.Unmarshal(indicioEnvelope.Data, &indicios); err != nil {
				return ChildCounts{}, apperr.Upstream("Respuesta del servicio DICRI malformada", err)
			}
		}
		counts.Indicios += len(indicios)
	}

	return counts, nil
}

// actorFrom resolves the acting username from the request session.
func actorFrom(ctx context.Context) string {
	if sess := session.FromContext(ctx); sess != nil && sess.Usuario != nil {
		return sess.Usuario.NombreUsuario
	}
	return ""
}
