// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

// Package fiscalia manages the prosecutor-office catalogue. Reads are open
// to any authenticated user (expediente forms need the list); writes are
// reserved for administrators.
package fiscalia

// Fiscalia is a prosecutor office as reported by the backend.
type Fiscalia struct {
	IDFiscalia     int     `json:"id_fiscalia"`
	NombreFiscalia string  `json:"nombre_fiscalia"`
	Direccion      *string `json:"direccion,omitempty"`
	Telefono       *string `json:"telefono,omitempty"`
	Activo         bool    `json:"activo"`
}

// CreateInput is the payload for registering a fiscalía.
type CreateInput struct {
	NombreFiscalia string `json:"nombre_fiscalia"`
	Direccion      string `json:"direccion,omitempty"`
	Telefono       string `json:"telefono,omitempty"`
}

// UpdateInput is the payload for editing a fiscalía.
type UpdateInput struct {
	NombreFiscalia *string `json:"nombre_fiscalia,omitempty"`
	Direccion      *string `json:"direccion,omitempty"`
	Telefono       *string `json:"telefono,omitempty"`
	Activo         *bool   `json:"activo,omitempty"`
}
