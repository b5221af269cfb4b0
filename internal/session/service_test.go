// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package session_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mp-gt/dicri-portal/internal/audit"
	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/session"
	"github.com/mp-gt/dicri-portal/internal/upstream"
)

// # Test Doubles

// memStore is an in-memory session.Store.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]*session.Session{}}
}

func (store *memStore) Save(_ context.Context, id string, sess *session.Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	copied := *sess
	store.sessions[id] = &copied
	return nil
}

func (store *memStore) Get(_ context.Context, id string) (*session.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	sess, ok := store.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	copied := *sess
	return &copied, nil
}

func (store *memStore) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.sessions, id)
	return nil
}

func (store *memStore) len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.sessions)
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

func (recorder *memRecorder) events() []string {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	events := make([]string, 0, len(recorder.entries))
	for _, entry := range recorder.entries {
		events = append(events, entry.Event)
	}
	return events
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(noopWriter{}, nil))
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

const loginSuccessBody = `{
	"success": true,
	"message": "Autenticación exitosa",
	"data": {
		"token": "opaque-backend-token",
		"usuario": {"id_usuario": 7, "nombre_usuario": "ana.lopez", "nombre": "Ana", "apellido": "López", "email": "ana.lopez@mp.gob.gt", "activo": true, "cambiar_clave": false},
		"perfiles": [{"id_perfil": 2, "nombre_perfil": "Técnico de Campo", "activo": true}],
		"roles": [{"id_role": 3, "nombre_role": "TECNICO_DICRI", "activo": true}],
		"modulos": [
			{"id_modulo": 1, "nombre_modulo": "Expedientes", "ruta": "/dashboard/expedientes", "activo": true},
			{"id_modulo": 9, "nombre_modulo": "Contabilidad", "ruta": "/dashboard/contabilidad", "activo": true}
		]
	}
}`

/*
TestService_Login_Success covers the happy path: credentials accepted
upstream, module records validated against the route catalogue, session
persisted before the id is handed out.
*/
func TestService_Login_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(loginSuccessBody))
	}))
	defer server.Close()

	store := newMemStore()
	recorder := &memRecorder{}
	service := session.NewService(store, upstream.NewClient(server.URL, discardLogger()), recorder, discardLogger(), 0, 0)

	result, err := service.Login(context.Background(), session.LoginInput{
		NombreUsuario: "ana.lopez",
		Clave:         "s3creta",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, 7, result.Session.Usuario.IDUsuario)
	assert.Equal(t, []string{"TECNICO_DICRI"}, result.Session.Roles)

	// The unknown contabilidad route must be dropped by the catalogue filter.
	require.Len(t, result.Session.Modulos, 1)
	assert.Equal(t, "/dashboard/expedientes", result.Session.Modulos[0].Ruta)

	// Session must be durable before Login returns.
	persisted, err := store.Get(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "opaque-backend-token", persisted.Token)
	assert.True(t, persisted.IsAuthenticated(time.Now()))

	assert.Equal(t, []string{audit.EventLogin}, recorder.events())
}

/*
TestService_Login_Failure passes the backend's rejection message through
verbatim and leaves no session behind.
*/
func TestService_Login_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Usuario o contraseña incorrectos"}`))
	}))
	defer server.Close()

	store := newMemStore()
	service := session.NewService(store, upstream.NewClient(server.URL, discardLogger()), &memRecorder{}, discardLogger(), 0, 0)

	_, err := service.Login(context.Background(), session.LoginInput{
		NombreUsuario: "ana.lopez",
		Clave:         "incorrecta",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
	assert.Equal(t, "Usuario o contraseña incorrectos", ae.Message)
	assert.Equal(t, 0, store.len())
}

/*
TestService_Login_MissingCredentials fails locally without touching the
backend.
*/
func TestService_Login_MissingCredentials(t *testing.T) {
	upstreamCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
	}))
	defer server.Close()

	service := session.NewService(newMemStore(), upstream.NewClient(server.URL, discardLogger()), &memRecorder{}, discardLogger(), 0, 0)

	_, err := service.Login(context.Background(), session.LoginInput{NombreUsuario: "ana.lopez"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.Equal(t, 0, upstreamCalls)
}

/*
TestService_Verify_FreshSkipsUpstream trusts a recent verification instead of
hitting /auth/verify on every navigation.
*/
func TestService_Verify_FreshSkipsUpstream(t *testing.T) {
	upstreamCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
	}))
	defer server.Close()

	store := newMemStore()
	require.NoError(t, store.Save(context.Background(), "sid-1", &session.Session{
		Token:      "tok",
		TokenExp:   time.Now().Add(time.Hour),
		Usuario:    &session.Usuario{IDUsuario: 7, NombreUsuario: "ana.lopez"},
		VerifiedAt: time.Now(),
	}))

	service := session.NewService(store, upstream.NewClient(server.URL, discardLogger()), &memRecorder{}, discardLogger(), 5*time.Minute, 0)

	sess, err := service.Verify(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, 7, sess.Usuario.IDUsuario)
	assert.Equal(t, 0, upstreamCalls)
}

/*
TestService_Verify_StaleRevalidates performs the upstream round trip once the
freshness window has passed and refreshes the identity snapshot.
*/
func TestService_Verify_StaleRevalidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/verify":
			require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"success":true,"message":"Token válido"}`))
		case "/auth/me":
			_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"id_usuario":7,"nombre_usuario":"ana.lopez","cambiar_clave":true}}`))
		default:
			t.Fatalf("unexpected upstream path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	store := newMemStore()
	require.NoError(t, store.Save(context.Background(), "sid-1", &session.Session{
		Token:      "tok",
		TokenExp:   time.Now().Add(time.Hour),
		Usuario:    &session.Usuario{IDUsuario: 7, NombreUsuario: "ana.lopez", CambiarClave: false},
		VerifiedAt: time.Now().Add(-30 * time.Minute),
	}))

	service := session.NewService(store, upstream.NewClient(server.URL, discardLogger()), &memRecorder{}, discardLogger(), 5*time.Minute, 0)

	sess, err := service.Verify(context.Background(), "sid-1")
	require.NoError(t, err)

	// Backend flagged a forced password change since the last verification.
	assert.True(t, sess.NeedsPasswordChange())

	persisted, err := store.Get(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), persisted.VerifiedAt, 5*time.Second)
}

/*
TestService_Verify_UpstreamRejects tears the session down when the backend no
longer accepts the token.
*/
func TestService_Verify_UpstreamRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Token inválido"}`))
	}))
	defer server.Close()

	store := newMemStore()
	require.NoError(t, store.Save(context.Background(), "sid-1", &session.Session{
		Token:      "tok",
		TokenExp:   time.Now().Add(time.Hour),
		Usuario:    &session.Usuario{NombreUsuario: "ana.lopez"},
		VerifiedAt: time.Now().Add(-30 * time.Minute),
	}))

	recorder := &memRecorder{}
	service := session.NewService(store, upstream.NewClient(server.URL, discardLogger()), recorder, discardLogger(), 5*time.Minute, 0)

	_, err := service.Verify(context.Background(), "sid-1")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
	assert.Equal(t, 0, store.len())
	assert.Contains(t, recorder.events(), audit.EventSessionExpired)
}

/*
TestService_Verify_TransportFailureClearsSession treats an unreachable
backend like a rejected token: a session whose verification could not
complete is cleared, never left live in the store.
*/
func TestService_Verify_TransportFailureClearsSession(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Save(context.Background(), "sid-1", &session.Session{
		Token:      "tok",
		TokenExp:   time.Now().Add(time.Hour),
		Usuario:    &session.Usuario{NombreUsuario: "ana.lopez"},
		VerifiedAt: time.Now().Add(-30 * time.Minute),
	}))

	recorder := &memRecorder{}
	service := session.NewService(store, upstream.NewClient("http://127.0.0.1:1", discardLogger()), recorder, discardLogger(), 5*time.Minute, 0)

	_, err := service.Verify(context.Background(), "sid-1")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)
	assert.Equal(t, 0, store.len())
	assert.Contains(t, recorder.events(), audit.EventSessionExpired)
}

/*
TestService_Login_SessionTTLFallback sizes the session by the configured TTL
when the backend token carries no readable expiry claim.
*/
func TestService_Login_SessionTTLFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// loginSuccessBody's token is opaque, not a JWT, so no exp claim exists.
		_, _ = w.Write([]byte(loginSuccessBody))
	}))
	defer server.Close()

	store := newMemStore()
	service := session.NewService(store, upstream.NewClient(server.URL, discardLogger()), &memRecorder{}, discardLogger(), 0, 2*time.Hour)

	result, err := service.Login(context.Background(), session.LoginInput{
		NombreUsuario: "ana.lopez",
		Clave:         "s3creta",
	})
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().Add(2*time.Hour), result.Session.TokenExp, 5*time.Second)
}

/*
TestService_Logout_Idempotent repeats logout without errors, known session or
not.
*/
func TestService_Logout_Idempotent(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Save(context.Background(), "sid-1", &session.Session{
		Token:    "tok",
		TokenExp: time.Now().Add(time.Hour),
		Usuario:  &session.Usuario{NombreUsuario: "ana.lopez"},
	}))

	recorder := &memRecorder{}
	service := session.NewService(store, upstream.NewClient("http://127.0.0.1:1", discardLogger()), recorder, discardLogger(), 0, 0)

	require.NoError(t, service.Logout(context.Background(), "sid-1"))
	require.NoError(t, service.Logout(context.Background(), "sid-1"))
	require.NoError(t, service.Logout(context.Background(), ""))

	assert.Equal(t, 0, store.len())
	assert.Equal(t, []string{audit.EventLogout}, recorder.events())
}

/*
TestService_Invalidate destroys the session named by the context, the path
taken when any backend call answers 401 mid-session.
*/
func TestService_Invalidate(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Save(context.Background(), "sid-1", &session.Session{
		Token:    "tok",
		TokenExp: time.Now().Add(time.Hour),
		Usuario:  &session.Usuario{NombreUsuario: "ana.lopez"},
	}))

	recorder := &memRecorder{}
	service := session.NewService(store, upstream.NewClient("http://127.0.0.1:1", discardLogger()), recorder, discardLogger(), 0, 0)

	// Anonymous context: nothing to do.
	service.Invalidate(context.Background())
	assert.Equal(t, 1, store.len())

	service.Invalidate(session.WithID(context.Background(), "sid-1"))
	assert.Equal(t, 0, store.len())
	assert.Equal(t, []string{audit.EventSessionExpired}, recorder.events())
}
