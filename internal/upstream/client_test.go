// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package upstream_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/upstream"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(noopWriter{}, nil))
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

/*
TestClient_BearerInjection checks that the Authorization header is attached
only when the context carries a token.
*/
func TestClient_BearerInjection(t *testing.T) {
	var seenAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer server.Close()

	client := upstream.NewClient(server.URL, discardLogger())

	// Anonymous call: no header.
	_, err := client.Get(context.Background(), "/auth/login")
	require.NoError(t, err)
	assert.Empty(t, seenAuth)

	// Authenticated call: bearer header present.
	ctx := upstream.WithToken(context.Background(), "jwt-abc")
	_, err = client.Get(ctx, "/auth/verify")
	require.NoError(t, err)
	assert.Equal(t, "Bearer jwt-abc", seenAuth)
}

/*
TestClient_UnauthorizedHook checks the centralized 401 policy: the hook fires
exactly once for any endpoint answering 401, and the caller receives a 401
AppError so the handler chain forces the logout redirect.
*/
func TestClient_UnauthorizedHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Token inválido"}`))
	}))
	defer server.Close()

	client := upstream.NewClient(server.URL, discardLogger())

	hookCalls := 0
	client.SetUnauthorizedHook(func(ctx context.Context) { hookCalls++ })

	_, err := client.Get(context.Background(), "/expedientes/1")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
	assert.Equal(t, "Token inválido", ae.Message)
	assert.Equal(t, 1, hookCalls)
}

/*
TestClient_ErrorTaxonomy maps upstream statuses onto the portal error model.
*/
func TestClient_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"forbidden", http.StatusForbidden, `{"success":false,"message":"Sin permisos"}`, http.StatusForbidden, "Sin permisos"},
		{"not_found", http.StatusNotFound, `{"success":false,"message":"Expediente no encontrado"}`, http.StatusNotFound, "Expediente no encontrado"},
		{"validation", http.StatusBadRequest, `{"success":false,"message":"Justificación muy corta"}`, http.StatusBadRequest, "Justificación muy corta"},
		{"server_fault", http.StatusInternalServerError, `boom`, http.StatusBadGateway, "El servicio DICRI no está disponible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := upstream.NewClient(server.URL, discardLogger())
			_, err := client.Post(context.Background(), "/expedientes/42/rechazar", map[string]string{"justificacion": "x"})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
			assert.Equal(t, tt.wantMsg, ae.Message)
		})
	}
}

/*
TestClient_TransportFailure maps an unreachable backend to 502.
*/
func TestClient_TransportFailure(t *testing.T) {
	client := upstream.NewClient("http://127.0.0.1:1", discardLogger())

	_, err := client.Get(context.Background(), "/auth/verify")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)
}

/*
TestEnvelope_DecodeData checks payload decoding from the raw envelope.
*/
func TestEnvelope_DecodeData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"id_investigacion":42,"codigo_caso":"MP001-2026-42"}}`))
	}))
	defer server.Close()

	client := upstream.NewClient(server.URL, discardLogger())
	envelope, err := client.Get(context.Background(), "/expedientes/42")
	require.NoError(t, err)
	require.True(t, envelope.Success)

	var payload struct {
		ID     int    `json:"id_investigacion"`
		Codigo string `json:"codigo_caso"`
	}
	require.NoError(t, envelope.DecodeData(&payload))
	assert.Equal(t, 42, payload.ID)
	assert.Equal(t, "MP001-2026-42", payload.Codigo)
}
