// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package expediente_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mp-gt/dicri-portal/internal/audit"
	"github.com/mp-gt/dicri-portal/internal/expediente"
	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/upstream"
	"github.com/mp-gt/dicri-portal/pkg/pagination"
)

// # Test Doubles

// fakeBackend simulates the DICRI API for one expediente plus its children.
type fakeBackend struct {
	mu       sync.Mutex
	estado   expediente.EstadoRevision
	escenas  []int
	indicios map[int]int
	requests []string
	lastBody string
}

func (backend *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		backend.requests = append(backend.requests, r.Method+" "+r.URL.Path)
		if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
			backend.lastBody = string(body)
		}
		backend.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/expedientes":
			writeData(w, []map[string]any{
				{"id_investigacion": 1, "codigo_caso": "MP001-2026-1", "estado_revision_dicri": "APROBADO"},
				{"id_investigacion": 2, "codigo_caso": "MP001-2026-2", "estado_revision_dicri": "EN_REGISTRO"},
				{"id_investigacion": 3, "codigo_caso": "MP001-2026-3", "estado_revision_dicri": "RECHAZADO"},
			})

		case r.Method == http.MethodGet && r.URL.Path == "/expedientes/42":
			writeData(w, map[string]any{
				"id_investigacion":      42,
				"codigo_caso":           "MP001-2026-42",
				"nombre_caso":           "Allanamiento zona 18",
				"estado_revision_dicri": backend.estado,
				"activo":                true,
			})

		case r.Method == http.MethodGet && r.URL.Path == "/expedientes/42/escenas":
			records := make([]map[string]any, 0, len(backend.escenas))
			for _, id := range backend.escenas {
				records = append(records, map[string]any{"id_escena": id})
			}
			writeData(w, records)

		case r.Method == http.MethodGet && r.URL.Path == "/indicios":
			id := 0
			_, _ = fmt.Sscanf(r.URL.Query().Get("id_escena"), "%d", &id)
			records := make([]map[string]any, backend.indicios[id])
			for i := range records {
				records[i] = map[string]any{"id_indicio": i + 1}
			}
			writeData(w, records)

		default:
			// Mutations succeed with an empty envelope.
			_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
		}
	})
}

func (backend *fakeBackend) saw(request string) bool {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	for _, seen := range backend.requests {
		if seen == request {
			return true
		}
	}
	return false
}

func writeData(w http.ResponseWriter, data any) {
	payload, _ := json.Marshal(data)
	_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":` + string(payload) + `}`))
}

// memRecorder captures audit entries.
type memRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (recorder *memRecorder) Record(_ context.Context, entry audit.Entry) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.entries = append(recorder.entries, entry)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, backend *fakeBackend, recorder audit.Recorder) *expediente.Service {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return expediente.NewService(upstream.NewClient(server.URL, discardLogger()), recorder, discardLogger())
}

/*
TestService_List_Pagination paginates the upstream list locally and carries
the filters through to the backend query string.
*/
func TestService_List_Pagination(t *testing.T) {
	backend := &fakeBackend{}
	service := newService(t, backend, nil)

	estado := expediente.EstadoEnRegistro
	items, meta, err := service.List(context.Background(),
		expediente.ListFilters{Estado: &estado},
		pagination.Params{Page: 2, PageSize: 2},
	)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].IDInvestigacion)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
	assert.True(t, backend.saw("GET /expedientes"))
}

/*
TestService_List_UnknownEstado rejects a bad filter before any upstream call.
*/
func TestService_List_UnknownEstado(t *testing.T) {
	backend := &fakeBackend{}
	service := newService(t, backend, nil)

	estado := expediente.EstadoRevision("ARCHIVADO")
	_, _, err := service.List(context.Background(), expediente.ListFilters{Estado: &estado}, pagination.Params{Page: 1, PageSize: 20})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.Empty(t, backend.requests)
}

/*
TestService_Update_Frozen refuses edits once the expediente left the
editable states.
*/
func TestService_Update_Frozen(t *testing.T) {
	backend := &fakeBackend{estado: expediente.EstadoAprobado}
	service := newService(t, backend, nil)

	err := service.Update(context.Background(), 42, expediente.UpdateInput{})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	assert.False(t, backend.saw("PUT /expedientes/42"))
}

/*
TestService_Delete_BlockedByEvidence runs the emptiness checks in sequence
and stops at the first escena found.
*/
func TestService_Delete_BlockedByEvidence(t *testing.T) {
	backend := &fakeBackend{estado: expediente.EstadoEnRegistro, escenas: []int{10}}
	service := newService(t, backend, nil)

	err := service.Delete(context.Background(), 42)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	assert.False(t, backend.saw("DELETE /expedientes/42"))
}

/*
TestService_Delete_EmptyShell deletes an expediente with no evidence and no
review history, and records the action.
*/
func TestService_Delete_EmptyShell(t *testing.T) {
	backend := &fakeBackend{estado: expediente.EstadoEnRegistro}
	recorder := &memRecorder{}
	service := newService(t, backend, recorder)

	require.NoError(t, service.Delete(context.Background(), 42))
	assert.True(t, backend.saw("DELETE /expedientes/42"))

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, audit.EventEliminar, recorder.entries[0].Event)
	assert.Equal(t, 42, recorder.entries[0].ExpedienteID)
}

/*
TestService_EnviarRevision_Conflict refuses submission from a pending file.
*/
func TestService_EnviarRevision_Conflict(t *testing.T) {
	backend := &fakeBackend{estado: expediente.EstadoPendienteRevision}
	service := newService(t, backend, nil)

	err := service.EnviarRevision(context.Background(), 42)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	assert.False(t, backend.saw("POST /expedientes/42/enviar-revision"))
}

/*
TestService_Aprobar approves a pending expediente.
*/
func TestService_Aprobar(t *testing.T) {
	backend := &fakeBackend{estado: expediente.EstadoPendienteRevision}
	recorder := &memRecorder{}
	service := newService(t, backend, recorder)

	require.NoError(t, service.Aprobar(context.Background(), 42))
	assert.True(t, backend.saw("POST /expedientes/42/aprobar"))

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, audit.EventAprobar, recorder.entries[0].Event)
}

/*
TestService_Rechazar forwards the trimmed justification and records it.
*/
func TestService_Rechazar(t *testing.T) {
	backend := &fakeBackend{estado: expediente.EstadoPendienteRevision}
	recorder := &memRecorder{}
	service := newService(t, backend, recorder)

	require.NoError(t, service.Rechazar(context.Background(), 42, "  Faltan fotografías de la escena  "))
	assert.True(t, backend.saw("POST /expedientes/42/rechazar"))
	assert.JSONEq(t, `{"justificacion":"Faltan fotografías de la escena"}`, backend.lastBody)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, audit.EventRechazar, recorder.entries[0].Event)
	assert.Equal(t, "Faltan fotografías de la escena", recorder.entries[0].Detail["justificacion"])
}

/*
TestService_Rechazar_ShortJustification fails locally, before any upstream
traffic.
*/
func TestService_Rechazar_ShortJustification(t *testing.T) {
	backend := &fakeBackend{estado: expediente.EstadoPendienteRevision}
	service := newService(t, backend, nil)

	err := service.Rechazar(context.Background(), 42, "muy corta")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.Empty(t, backend.requests)
}

/*
TestService_Resumen aggregates the case file, evidence counts and allowed
actions for a reviewer.
*/
func TestService_Resumen(t *testing.T) {
	backend := &fakeBackend{
		estado:   expediente.EstadoPendienteRevision,
		escenas:  []int{10, 11},
		indicios: map[int]int{10: 3, 11: 2},
	}
	service := newService(t, backend, nil)

	resumen, err := service.Resumen(context.Background(), 42, []string{"COORDINADOR_DICRI"})
	require.NoError(t, err)

	assert.Equal(t, 42, resumen.Expediente.IDInvestigacion)
	assert.Equal(t, 2, resumen.Escenas)
	assert.Equal(t, 5, resumen.Indicios)
	assert.Equal(t, []expediente.Accion{expediente.AccionAprobar, expediente.AccionRechazar}, resumen.Acciones)
}
