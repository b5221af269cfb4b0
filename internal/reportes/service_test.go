// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package reportes_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/reportes"
	"github.com/mp-gt/dicri-portal/internal/upstream"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestService_Revision_DateValidation rejects bad ranges before any upstream
traffic.
*/
func TestService_Revision_DateValidation(t *testing.T) {
	service := reportes.NewService(upstream.NewClient("http://127.0.0.1:1", discardLogger()), discardLogger())

	tests := []struct {
		name    string
		filters reportes.RevisionFilters
	}{
		{"missing_range", reportes.RevisionFilters{}},
		{"malformed_date", reportes.RevisionFilters{FechaInicio: "01/02/2026", FechaFin: "2026-02-28"}},
		{"inverted_range", reportes.RevisionFilters{FechaInicio: "2026-03-01", FechaFin: "2026-02-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Revision(context.Background(), tt.filters)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		})
	}
}

/*
TestService_Revision_QueryPropagation carries the range and optional state
filter to the backend.
*/
func TestService_Revision_QueryPropagation(t *testing.T) {
	var seenQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":[{"codigo_caso":"MP001-2026-42","estado_actual":"RECHAZADO","justificacion_revision":"Faltan fotografías de la escena"}]}`))
	}))
	defer server.Close()

	service := reportes.NewService(upstream.NewClient(server.URL, discardLogger()), discardLogger())

	rows, err := service.Revision(context.Background(), reportes.RevisionFilters{
		FechaInicio:    "2026-01-01",
		FechaFin:       "2026-01-31",
		EstadoRevision: "RECHAZADO",
	})
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "Faltan fotografías de la escena", rows[0].JustificacionRevision)
	assert.Contains(t, seenQuery, "fecha_inicio=2026-01-01")
	assert.Contains(t, seenQuery, "fecha_fin=2026-01-31")
	assert.Contains(t, seenQuery, "estado_revision=RECHAZADO")
}

/*
TestService_Estadisticas decodes the workload summary.
*/
func TestService_Estadisticas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reportes/estadisticas-generales", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{
			"total_expedientes": 12,
			"en_registro": 4,
			"pendiente_revision": 3,
			"aprobados": 4,
			"rechazados": 1,
			"total_indicios": 57,
			"expedientes_por_fiscalia": [{"nombre_fiscalia": "Fiscalía Distrital de Guatemala", "total": 8}]
		}}`))
	}))
	defer server.Close()

	service := reportes.NewService(upstream.NewClient(server.URL, discardLogger()), discardLogger())

	stats, err := service.Estadisticas(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, stats.TotalExpedientes)
	assert.Equal(t, 57, stats.TotalIndicios)
	require.Len(t, stats.ExpedientesPorFiscalia, 1)
	assert.Equal(t, 8, stats.ExpedientesPorFiscalia[0].Total)
}
