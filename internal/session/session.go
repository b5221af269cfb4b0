// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

/*
Package session owns the portal's authentication lifecycle.

The DICRI backend issues the JWT and remains the authority on credentials and
permissions; this package manages the portal-side session wrapped around that
token:

  - Session: the typed snapshot of an authenticated user (token, identity,
    enabled modules) persisted in Redis under an opaque session id.
  - Lifecycle: login, verification, logout and password change (Service).
  - Guards: middleware that loads the session per request and gates protected
    routes by authentication and role (SessionLoader, RequireSession,
    RequireRole).

The session store is the exclusive writer of its Redis keys. Handlers never
see the raw token; it travels to the backend via the upstream context.
*/
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/mp-gt/dicri-portal/internal/platform/constants"
	"github.com/mp-gt/dicri-portal/internal/platform/ctxkey"
)

// # Types

// Role is one backend role assignment.
type Role struct {
	IDRole     int    `json:"id_role"`
	NombreRole string `json:"nombre_role"`
	Activo     bool   `json:"activo"`
}

// Perfil is one backend profile assignment.
type Perfil struct {
	IDPerfil     int    `json:"id_perfil"`
	NombrePerfil string `json:"nombre_perfil"`
	Activo       bool   `json:"activo"`
}

// Usuario is the authenticated user's identity as reported by the backend.
type Usuario struct {
	IDUsuario     int    `json:"id_usuario"`
	NombreUsuario string `json:"nombre_usuario"`
	Nombre        string `json:"nombre"`
	Apellido      string `json:"apellido"`
	Email         string `json:"email"`
	Activo        bool   `json:"activo"`
	CambiarClave  bool   `json:"cambiar_clave"`
}

// Modulo is one navigable portal module enabled for the user.
type Modulo struct {
	IDModulo      int    `json:"id_modulo"`
	NombreModulo  string `json:"nombre_modulo"`
	Descripcion   string `json:"descripcion,omitempty"`
	Ruta          string `json:"ruta"`
	Icono         string `json:"icono,omitempty"`
	Orden         int    `json:"orden"`
	IDModuloPadre *int   `json:"id_modulo_padre"`
	Activo        bool   `json:"activo"`
}

// Session is the persisted authentication state for one portal session.
//
// TokenExp mirrors the JWT's exp claim so expiry checks never need to parse
// the token again; VerifiedAt records the last successful upstream
// verification and bounds how long it is trusted.
type Session struct {
	Token      string    `json:"token"`
	TokenExp   time.Time `json:"token_exp"`
	Usuario    *Usuario  `json:"usuario"`
	Perfiles   []Perfil  `json:"perfiles,omitempty"`
	Roles      []string  `json:"roles"`
	Modulos    []Modulo  `json:"modulos"`
	VerifiedAt time.Time `json:"verified_at"`
}

// IsAuthenticated reports whether the session represents a live login:
// a known user and an unexpired token.
func (s *Session) IsAuthenticated(now time.Time) bool {
	if s == nil || s.Usuario == nil || s.Token == "" {
		return false
	}
	return now.Before(s.TokenExp)
}

// NeedsPasswordChange reports whether the user must change their password
// before using the rest of the portal.
func (s *Session) NeedsPasswordChange() bool {
	return s != nil && s.Usuario != nil && s.Usuario.CambiarClave
}

// HasRole reports whether the session holds at least one of the named roles.
func (s *Session) HasRole(names ...string) bool {
	if s == nil {
		return false
	}
	for _, have := range s.Roles {
		for _, want := range names {
			if have == want {
				return true
			}
		}
	}
	return false
}

// HasModule reports whether a module with the given route is enabled.
func (s *Session) HasModule(ruta string) bool {
	if s == nil {
		return false
	}
	for _, m := range s.Modulos {
		if m.Ruta == ruta && m.Activo {
			return true
		}
	}
	return false
}

// # Session Identifiers

// NewID issues a fresh opaque session id with [constants.SessionIDBytes] of
// entropy, hex encoded.
func NewID() (string, error) {
	buf := make([]byte, constants.SessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// IDFromRequest extracts the session id from the request, preferring the
// X-Session-ID header and falling back to the session cookie.
func IDFromRequest(request *http.Request) string {
	if id := request.Header.Get(constants.SessionIDHeader); id != "" {
		return id
	}
	if cookie, err := request.Cookie(constants.SessionIDCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// # Context Plumbing

// sessionIDKey is the private context key carrying the raw session id.
type sessionIDKey struct{}

// WithContext returns a context carrying the loaded session.
func WithContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, sess)
}

// FromContext extracts the loaded session, or nil for anonymous requests.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(ctxkey.KeySession).(*Session)
	return sess
}

// WithID returns a context carrying the raw session id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// IDFromContext extracts the raw session id, or "".
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}
