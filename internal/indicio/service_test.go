// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package indicio_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mp-gt/dicri-portal/internal/indicio"
	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/upstream"
	"github.com/mp-gt/dicri-portal/pkg/pointer"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestEstadoIndicio_Valid pins the known custody states.
*/
func TestEstadoIndicio_Valid(t *testing.T) {
	for _, estado := range []indicio.EstadoIndicio{
		indicio.EstadoRecolectado,
		indicio.EstadoEnCustodia,
		indicio.EstadoEnAnalisis,
		indicio.EstadoAnalizado,
		indicio.EstadoDevuelto,
	} {
		assert.True(t, estado.Valid(), string(estado))
	}
	assert.False(t, indicio.EstadoIndicio("PERDIDO").Valid())
	assert.False(t, indicio.EstadoIndicio("").Valid())
}

/*
TestService_List_FilterPropagation carries every filter into the backend
query string.
*/
func TestService_List_FilterPropagation(t *testing.T) {
	var seenQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":[{"id_indicio":1,"codigo_indicio":"IND-001","estado_actual":"RECOLECTADO"}]}`))
	}))
	defer server.Close()

	service := indicio.NewService(upstream.NewClient(server.URL, discardLogger()), discardLogger())

	estado := indicio.EstadoEnCustodia
	items, err := service.List(context.Background(), indicio.ListFilters{
		IDEscena: pointer.To(10),
		Estado:   &estado,
		Activo:   pointer.To(true),
	})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "IND-001", items[0].CodigoIndicio)
	assert.Contains(t, seenQuery, "id_escena=10")
	assert.Contains(t, seenQuery, "estado=EN_CUSTODIA")
	assert.Contains(t, seenQuery, "activo=true")
}

/*
TestService_ListByExpediente walks every scene of the case file and merges
their evidence lists in scene order.
*/
func TestService_ListByExpediente(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/expedientes/42/escenas":
			_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":[{"id_escena":10},{"id_escena":11}]}`))
		case r.URL.Path == "/indicios" && r.URL.Query().Get("id_escena") == "10":
			_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":[{"id_indicio":1,"codigo_indicio":"IND-001"},{"id_indicio":2,"codigo_indicio":"IND-002"}]}`))
		case r.URL.Path == "/indicios" && r.URL.Query().Get("id_escena") == "11":
			_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":[{"id_indicio":3,"codigo_indicio":"IND-003"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	service := indicio.NewService(upstream.NewClient(server.URL, discardLogger()), discardLogger())

	items, err := service.ListByExpediente(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "IND-001", items[0].CodigoIndicio)
	assert.Equal(t, "IND-003", items[2].CodigoIndicio)
}

/*
TestService_Update_UnknownEstado rejects custody states outside the set
without touching the backend.
*/
func TestService_Update_UnknownEstado(t *testing.T) {
	service := indicio.NewService(upstream.NewClient("http://127.0.0.1:1", discardLogger()), discardLogger())

	estado := indicio.EstadoIndicio("PERDIDO")
	err := service.Update(context.Background(), 1, indicio.UpdateInput{EstadoActual: &estado})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
}

/*
TestService_Create_Validation requires the identifying fields up front.
*/
func TestService_Create_Validation(t *testing.T) {
	service := indicio.NewService(upstream.NewClient("http://127.0.0.1:1", discardLogger()), discardLogger())

	_, err := service.Create(context.Background(), indicio.CreateInput{CodigoIndicio: "IND-001"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
}
