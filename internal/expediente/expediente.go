// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

/*
Package expediente implements the case-file review workflow.

An expediente moves through four review states:

	EN_REGISTRO ──enviar-revision──▶ PENDIENTE_REVISION ──aprobar──▶ APROBADO
	     ▲                                   │
	     └────────(editable again)◀──rechazar┴──▶ RECHAZADO ──enviar-revision──▶ PENDIENTE_REVISION

The transition rules live in exactly one place (this file) and every call
site — list rendering, detail actions, the mutation endpoints — asks the
same functions. The backend re-validates every transition; these rules keep
the portal from offering actions the backend would reject.
*/
package expediente

import (
	"strings"

	"github.com/mp-gt/dicri-portal/internal/platform/constants"
)

// EstadoRevision is the review state of an expediente.
type EstadoRevision string

const (
	EstadoEnRegistro        EstadoRevision = "EN_REGISTRO"
	EstadoPendienteRevision EstadoRevision = "PENDIENTE_REVISION"
	EstadoAprobado          EstadoRevision = "APROBADO"
	EstadoRechazado         EstadoRevision = "RECHAZADO"
)

// Valid reports whether the state is one of the four known review states.
func (e EstadoRevision) Valid() bool {
	switch e {
	case EstadoEnRegistro, EstadoPendienteRevision, EstadoAprobado, EstadoRechazado:
		return true
	}
	return false
}

// Expediente is a case file as reported by the backend.
type Expediente struct {
	IDInvestigacion       int            `json:"id_investigacion"`
	CodigoCaso            string         `json:"codigo_caso"`
	NombreCaso            string         `json:"nombre_caso"`
	FechaInicio           string         `json:"fecha_inicio"`
	IDFiscalia            int            `json:"id_fiscalia"`
	NombreFiscalia        string         `json:"nombre_fiscalia,omitempty"`
	DescripcionHechos     string         `json:"descripcion_hechos,omitempty"`
	EstadoRevisionDicri   EstadoRevision `json:"estado_revision_dicri"`
	IDUsuarioRegistro     int            `json:"id_usuario_registro,omitempty"`
	IDUsuarioRevision     *int           `json:"id_usuario_revision,omitempty"`
	JustificacionRevision *string        `json:"justificacion_revision,omitempty"`
	FechaRevision         *string        `json:"fecha_revision,omitempty"`
	Activo                bool           `json:"activo"`
	UsuarioCreacion       string         `json:"usuario_creacion,omitempty"`
	FechaCreacion         string         `json:"fecha_creacion,omitempty"`
	UsuarioActualizacion  *string        `json:"usuario_actualizacion,omitempty"`
	FechaActualizacion    *string        `json:"fecha_actualizacion,omitempty"`
}

// ChildCounts holds how many escenas and indicios hang off an expediente.
type ChildCounts struct {
	Escenas  int `json:"escenas"`
	Indicios int `json:"indicios"`
}

// Accion is a workflow action the portal may offer for an expediente.
type Accion string

const (
	AccionEditar         Accion = "editar"
	AccionEnviarRevision Accion = "enviar_revision"
	AccionAprobar        Accion = "aprobar"
	AccionRechazar       Accion = "rechazar"
	AccionEliminar       Accion = "eliminar"
)

// # Transition Rules

// IsEditable reports whether the expediente's content may still change.
// Only pre-review and rejected case files are editable; once approved or
// pending review the file is frozen.
func (e *Expediente) IsEditable() bool {
	return e.EstadoRevisionDicri == EstadoEnRegistro || e.EstadoRevisionDicri == EstadoRechazado
}

// CanSubmit reports whether the expediente may be sent to review.
// Rejected files re-enter the queue through the same transition.
func (e *Expediente) CanSubmit() bool {
	return e.EstadoRevisionDicri == EstadoEnRegistro || e.EstadoRevisionDicri == EstadoRechazado
}

// CanReview reports whether approve/reject decisions apply.
func (e *Expediente) CanReview() bool {
	return e.EstadoRevisionDicri == EstadoPendienteRevision
}

// CanDelete reports whether the expediente may be removed: only files still
// in registration, with no escenas, no indicios and no review history.
func (e *Expediente) CanDelete(counts ChildCounts) bool {
	if e.EstadoRevisionDicri != EstadoEnRegistro {
		return false
	}
	if counts.Escenas > 0 || counts.Indicios > 0 {
		return false
	}
	return e.JustificacionRevision == nil || strings.TrimSpace(*e.JustificacionRevision) == ""
}

// IsReviewer reports whether a role set carries review powers.
func IsReviewer(roles []string) bool {
	for _, role := range roles {
		if role == constants.RoleAdmin || role == constants.RoleCoordinador {
			return true
		}
	}
	return false
}

// ValidJustificacion reports whether a rejection justification meets the
// minimum trimmed length.
func ValidJustificacion(justificacion string) bool {
	trimmed := strings.TrimSpace(justificacion)
	return len([]rune(trimmed)) >= constants.MinJustificacionLen
}

// AllowedActions computes every action the given role set may take on the
// expediente in its current state. The result drives both the UI affordances
// and the mutation guards, so the two can never disagree.
func AllowedActions(e *Expediente, roles []string, counts ChildCounts) []Accion {
	actions := make([]Accion, 0, 5)

	if e.IsEditable() {
		actions = append(actions, AccionEditar)
	}
	if e.CanSubmit() {
		actions = append(actions, AccionEnviarRevision)
	}
	if e.CanReview() && IsReviewer(roles) {
		actions = append(actions, AccionAprobar, AccionRechazar)
	}
	if e.CanDelete(counts) {
		actions = append(actions, AccionEliminar)
	}

	return actions
}
