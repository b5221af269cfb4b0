// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

/*
Package indicio manages evidence items and their type catalogue.

Each indicio belongs to a scene, carries a custody state and is classified
against the tipos-indicio catalogue. Custody states:

	RECOLECTADO → EN_CUSTODIA → EN_ANALISIS → ANALIZADO → DEVUELTO

The backend owns the custody transitions; the portal only refuses values
outside the known set.
*/
package indicio

// EstadoIndicio is the custody state of an evidence item.
type EstadoIndicio string

const (
	EstadoRecolectado EstadoIndicio = "RECOLECTADO"
	EstadoEnCustodia  EstadoIndicio = "EN_CUSTODIA"
	EstadoEnAnalisis  EstadoIndicio = "EN_ANALISIS"
	EstadoAnalizado   EstadoIndicio = "ANALIZADO"
	EstadoDevuelto    EstadoIndicio = "DEVUELTO"
)

// Valid reports whether the custody state is one of the known values.
func (e EstadoIndicio) Valid() bool {
	switch e {
	case EstadoRecolectado, EstadoEnCustodia, EstadoEnAnalisis, EstadoAnalizado, EstadoDevuelto:
		return true
	}
	return false
}

// Indicio is an evidence item as reported by the backend. The trailing
// fields are denormalized context the backend includes on detail responses.
type Indicio struct {
	IDIndicio            int           `json:"id_indicio"`
	CodigoIndicio        string        `json:"codigo_indicio"`
	IDEscena             int           `json:"id_escena"`
	IDTipoIndicio        int           `json:"id_tipo_indicio"`
	DescripcionCorta     string        `json:"descripcion_corta"`
	UbicacionEspecifica  string        `json:"ubicacion_especifica,omitempty"`
	FechaHoraRecoleccion string        `json:"fecha_hora_recoleccion,omitempty"`
	IDUsuarioRecolector  int           `json:"id_usuario_recolector,omitempty"`
	EstadoActual         EstadoIndicio `json:"estado_actual"`
	Activo               bool          `json:"activo"`

	TipoIndicio        string `json:"tipo_indicio,omitempty"`
	NombreEscena       string `json:"nombre_escena,omitempty"`
	DireccionEscena    string `json:"direccion_escena,omitempty"`
	CodigoCaso         string `json:"codigo_caso,omitempty"`
	NombreCaso         string `json:"nombre_caso,omitempty"`
	NombreFiscalia     string `json:"nombre_fiscalia,omitempty"`
	RecolectorNombre   string `json:"recolector_nombre,omitempty"`
	RecolectorApellido string `json:"recolector_apellido,omitempty"`
}

// TipoIndicio is an entry of the evidence-type catalogue.
type TipoIndicio struct {
	IDTipoIndicio int     `json:"id_tipo_indicio"`
	NombreTipo    string  `json:"nombre_tipo"`
	Descripcion   *string `json:"descripcion,omitempty"`
	Activo        bool    `json:"activo"`
}

// CreateInput is the payload for registering an evidence item.
type CreateInput struct {
	CodigoIndicio        string `json:"codigo_indicio"`
	IDEscena             int    `json:"id_escena"`
	IDTipoIndicio        int    `json:"id_tipo_indicio"`
	DescripcionCorta     string `json:"descripcion_corta"`
	UbicacionEspecifica  string `json:"ubicacion_especifica,omitempty"`
	FechaHoraRecoleccion string `json:"fecha_hora_recoleccion,omitempty"`
}

// UpdateInput is the payload for editing an evidence item.
type UpdateInput struct {
	DescripcionCorta     *string        `json:"descripcion_corta,omitempty"`
	UbicacionEspecifica  *string        `json:"ubicacion_especifica,omitempty"`
	FechaHoraRecoleccion *string        `json:"fecha_hora_recoleccion,omitempty"`
	IDTipoIndicio        *int           `json:"id_tipo_indicio,omitempty"`
	EstadoActual         *EstadoIndicio `json:"estado_actual,omitempty"`
	Activo               *bool          `json:"activo,omitempty"`
}

// ListFilters narrows the indicio listing. Nil fields mean "no filter".
type ListFilters struct {
	IDEscena      *int
	IDTipoIndicio *int
	Estado        *EstadoIndicio
	Activo        *bool
}
