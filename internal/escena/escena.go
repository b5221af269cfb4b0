// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

/*
Package escena manages crime-scene records attached to an expediente.

Scenes are created through the parent expediente (`/expedientes/{id}/escenas`)
and addressed individually afterwards (`/escenas/{id}`). A scene can only be
added while the parent case file is still editable; the check runs here so the
portal refuses early, and the backend enforces the same rule authoritatively.
*/
package escena

// Escena is a crime scene as reported by the backend.
type Escena struct {
	IDEscena             int     `json:"id_escena"`
	IDInvestigacion      int     `json:"id_investigacion"`
	NombreEscena         string  `json:"nombre_escena"`
	DireccionEscena      *string `json:"direccion_escena,omitempty"`
	FechaHoraInicio      string  `json:"fecha_hora_inicio"`
	FechaHoraFin         *string `json:"fecha_hora_fin,omitempty"`
	Descripcion          *string `json:"descripcion,omitempty"`
	Activo               bool    `json:"activo"`
	UsuarioCreacion      string  `json:"usuario_creacion,omitempty"`
	FechaCreacion        string  `json:"fecha_creacion,omitempty"`
	UsuarioActualizacion *string `json:"usuario_actualizacion,omitempty"`
	FechaActualizacion   *string `json:"fecha_actualizacion,omitempty"`
}

// CreateInput is the payload for registering a scene on an expediente.
// IDInvestigacion is taken from the URL, never from the body.
type CreateInput struct {
	IDInvestigacion int     `json:"id_investigacion"`
	NombreEscena    string  `json:"nombre_escena"`
	DireccionEscena string  `json:"direccion_escena,omitempty"`
	FechaHoraInicio string  `json:"fecha_hora_inicio"`
	FechaHoraFin    *string `json:"fecha_hora_fin,omitempty"`
	Descripcion     string  `json:"descripcion,omitempty"`
}

// UpdateInput is the payload for editing a scene. Nil fields are omitted.
type UpdateInput struct {
	NombreEscena    *string `json:"nombre_escena,omitempty"`
	DireccionEscena *string `json:"direccion_escena,omitempty"`
	FechaHoraInicio *string `json:"fecha_hora_inicio,omitempty"`
	FechaHoraFin    *string `json:"fecha_hora_fin,omitempty"`
	Descripcion     *string `json:"descripcion,omitempty"`
	Activo          *bool   `json:"activo,omitempty"`
}
