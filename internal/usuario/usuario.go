// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

// Package usuario proxies user administration to the backend. The whole
// surface is admin-only; the backend performs its own enforcement on top.
package usuario

// Usuario is a managed user account as reported by the backend.
type Usuario struct {
	IDUsuario          int     `json:"id_usuario"`
	NombreUsuario      string  `json:"nombre_usuario"`
	Nombre             string  `json:"nombre"`
	Apellido           string  `json:"apellido"`
	Email              string  `json:"email"`
	Activo             bool    `json:"activo"`
	CambiarClave       bool    `json:"cambiar_clave"`
	IntentosFallidos   int     `json:"intentos_fallidos"`
	FechaUltimoAcceso  *string `json:"fecha_ultimo_acceso,omitempty"`
	UsuarioCreacion    string  `json:"usuario_creacion,omitempty"`
	FechaCreacion      string  `json:"fecha_creacion,omitempty"`
	FechaActualizacion *string `json:"fecha_actualizacion,omitempty"`
}

// CreateInput is the payload for provisioning an account.
type CreateInput struct {
	NombreUsuario string `json:"nombre_usuario"`
	Nombre        string `json:"nombre"`
	Apellido      string `json:"apellido"`
	Email         string `json:"email"`
	Clave         string `json:"clave"`
	Perfiles      []int  `json:"perfiles,omitempty"`
}

// UpdateInput is the payload for editing an account.
type UpdateInput struct {
	Nombre       *string `json:"nombre,omitempty"`
	Apellido     *string `json:"apellido,omitempty"`
	Email        *string `json:"email,omitempty"`
	Activo       *bool   `json:"activo,omitempty"`
	CambiarClave *bool   `json:"cambiar_clave,omitempty"`
	Perfiles     []int   `json:"perfiles,omitempty"`
}
