// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

/*
Package reportes exposes the management reports: the review-activity report
over a date range and the general workload statistics. Both are reviewer
surfaces; technicians see their own expedientes, not the aggregate.
*/
package reportes

// RevisionExpediente is one row of the review-activity report.
type RevisionExpediente struct {
	CodigoCaso            string `json:"codigo_caso"`
	NombreCaso            string `json:"nombre_caso"`
	NombreFiscalia        string `json:"nombre_fiscalia"`
	FechaRegistro         string `json:"fecha_registro"`
	TecnicoRegistra       string `json:"tecnico_registra"`
	EstadoActual          string `json:"estado_actual"`
	FechaRevision         string `json:"fecha_revision"`
	CoordinadorRevision   string `json:"coordinador_revision"`
	JustificacionRevision string `json:"justificacion_revision"`
}

// FiscaliaTotal is one bucket of the per-office workload breakdown.
type FiscaliaTotal struct {
	NombreFiscalia string `json:"nombre_fiscalia"`
	Total          int    `json:"total"`
}

// Estadisticas is the general workload summary.
type Estadisticas struct {
	TotalExpedientes       int             `json:"total_expedientes"`
	EnRegistro             int             `json:"en_registro"`
	PendienteRevision      int             `json:"pendiente_revision"`
	Aprobados              int             `json:"aprobados"`
	Rechazados             int             `json:"rechazados"`
	TotalIndicios          int             `json:"total_indicios"`
	ExpedientesPorFiscalia []FiscaliaTotal `json:"expedientes_por_fiscalia"`
}
