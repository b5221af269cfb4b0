// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mp-gt/dicri-portal/internal/audit"
	"github.com/mp-gt/dicri-portal/internal/navigation"
	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/platform/constants"
	"github.com/mp-gt/dicri-portal/internal/platform/validate"
	"github.com/mp-gt/dicri-portal/internal/upstream"
)

// LoginInput carries the credentials exactly as the backend expects them.
type LoginInput struct {
	NombreUsuario string `json:"nombre_usuario"`
	Clave         string `json:"clave"`
}

// ChangePasswordInput carries a password change request.
type ChangePasswordInput struct {
	ClaveActual string `json:"clave_actual"`
	ClaveNueva  string `json:"clave_nueva"`
}

// LoginResult is what a successful login hands back to the HTTP layer.
type LoginResult struct {
	SessionID string
	Session   *Session
}

// Service implements the session lifecycle: login, verification, logout,
// password change and forced invalidation.
type Service struct {
	store        Store
	api          *upstream.Client
	audit        audit.Recorder
	logger       *slog.Logger
	verifyMaxAge time.Duration
	sessionTTL   time.Duration
	now          func() time.Time
}

// NewService constructs the session [Service]. sessionTTL bounds sessions
// whose token carries no readable expiry claim; zero values fall back to the
// package defaults.
func NewService(store Store, api *upstream.Client, recorder audit.Recorder, logger *slog.Logger, verifyMaxAge, sessionTTL time.Duration) *Service {
	if verifyMaxAge <= 0 {
		verifyMaxAge = constants.DefaultVerifyMaxAge
	}
	if sessionTTL <= 0 {
		sessionTTL = constants.DefaultSessionTTL
	}
	return &Service{
		store:        store,
		api:          api,
		audit:        recorder,
		logger:       logger,
		verifyMaxAge: verifyMaxAge,
		sessionTTL:   sessionTTL,
		now:          time.Now,
	}
}

// loginPayload is the backend's login response data.
type loginPayload struct {
	Token    string   `json:"token"`
	Usuario  *Usuario `json:"usuario"`
	Perfiles []Perfil `json:"perfiles"`
	Roles    []Role   `json:"roles"`
	Modulos  []Modulo `json:"modulos"`
}

// Login authenticates against the backend and establishes a portal session.
//
// # Flow
//  1. Validate that both credentials are present (the backend stays the
//     authority on whether they are correct).
//  2. POST /auth/login. Backend failure messages pass through verbatim so
//     the client shows exactly what the backend said.
//  3. Drop module records whose route is not in the portal catalogue.
//  4. Persist the session and wait for the write to complete; the session id
//     is only handed out once the state it names is durable.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {

	// ── 1. Validation ─────────────────────────────────────────────────────
	v := &validate.Validator{}
	if err := v.
		Required("nombre_usuario", input.NombreUsuario).
		Required("clave", input.Clave).
		Err(); err != nil {
		return nil, err
	}

	// ── 2. Upstream Authentication ────────────────────────────────────────
	envelope, err := s.api.Post(ctx, "/auth/login", input)
	if err != nil {
		return nil, err
	}

	payload := &loginPayload{}
	if err := envelope.DecodeData(payload); err != nil {
		return nil, err
	}
	if payload.Token == "" || payload.Usuario == nil {
		return nil, apperr.Upstream("Respuesta de login incompleta del servicio DICRI", nil)
	}

	// ── 3. Session Assembly ───────────────────────────────────────────────
	now := s.now()
	sess := &Session{
		Token:      payload.Token,
		TokenExp:   s.tokenExpiry(payload.Token, now),
		Usuario:    payload.Usuario,
		Perfiles:   payload.Perfiles,
		Roles:      roleNames(payload.Roles),
		Modulos:    filterModulos(ctx, s.logger, payload.Modulos),
		VerifiedAt: now,
	}

	// ── 4. Durable Persistence ────────────────────────────────────────────
	id, err := NewID()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.store.Save(ctx, id, sess); err != nil {
		return nil, apperr.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Event: audit.EventLogin,
		Actor: payload.Usuario.NombreUsuario,
	})
	s.logger.InfoContext(ctx, "session_established",
		slog.String("usuario", payload.Usuario.NombreUsuario),
		slog.Time("token_exp", sess.TokenExp),
	)

	return &LoginResult{SessionID: id, Session: sess}, nil
}

// Verify revalidates the session against the backend.
//
// A verification younger than the freshness window is trusted without a
// round trip, so bursts of navigation do not hammer /auth/verify. Older
// sessions are re-checked upstream and the user snapshot refreshed.
//
// Any failed verification clears the session: a token the backend rejected
// is dead, and one it could not be asked about cannot be trusted either, so
// transport failures tear the session down the same way.
func (s *Service) Verify(ctx context.Context, id string) (*Session, error) {

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.Sub(sess.VerifiedAt) < s.verifyMaxAge {
		return sess, nil
	}

	callCtx := upstream.WithToken(WithID(ctx, id), sess.Token)
	if _, err := s.api.Get(callCtx, "/auth/verify"); err != nil {
		s.expire(ctx, id, sess)
		return nil, err
	}

	// Refresh the identity snapshot so cambiar_clave and name changes land.
	if envelope, err := s.api.Get(callCtx, "/auth/me"); err == nil {
		refreshed := &Usuario{}
		if err := envelope.DecodeData(refreshed); err == nil {
			sess.Usuario = refreshed
		}
	}

	sess.VerifiedAt = now
	if err := s.store.Save(ctx, id, sess); err != nil {
		return nil, apperr.Internal(err)
	}

	return sess, nil
}

// Logout tears down the session. It is idempotent: logging out an unknown or
// already-expired session succeeds quietly.
func (s *Service) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	actor := ""
	if sess, err := s.store.Get(ctx, id); err == nil && sess.Usuario != nil {
		actor = sess.Usuario.NombreUsuario
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}

	if actor != "" {
		s.audit.Record(ctx, audit.Entry{Event: audit.EventLogout, Actor: actor})
	}
	return nil
}

// ChangePassword forwards a password change to the backend and, on success,
// clears the cambiar_clave flag on the stored session.
func (s *Service) ChangePassword(ctx context.Context, id string, input ChangePasswordInput) error {

	v := &validate.Validator{}
	if err := v.
		Required("clave_actual", input.ClaveActual).
		Required("clave_nueva", input.ClaveNueva).
		MinLen("clave_nueva", input.ClaveNueva, 8).
		Err(); err != nil {
		return err
	}

	sess, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	callCtx := upstream.WithToken(WithID(ctx, id), sess.Token)
	if _, err := s.api.Post(callCtx, "/auth/change-password", input); err != nil {
		if isUnauthorized(err) {
			s.expire(ctx, id, sess)
		}
		return err
	}

	sess.Usuario.CambiarClave = false
	if err := s.store.Save(ctx, id, sess); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Invalidate destroys the session named by the context, if any. It is wired
// as the upstream client's 401 hook so any backend rejection anywhere in the
// portal tears the session down exactly once.
func (s *Service) Invalidate(ctx context.Context) {
	id := IDFromContext(ctx)
	if id == "" {
		return
	}

	actor := ""
	if sess := FromContext(ctx); sess != nil && sess.Usuario != nil {
		actor = sess.Usuario.NombreUsuario
	}

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "session_invalidation_failed", slog.Any("error", err))
		return
	}
	s.audit.Record(ctx, audit.Entry{Event: audit.EventSessionExpired, Actor: actor})
}

// # Internals

// load fetches a live session or fails with 401.
func (s *Service) load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, apperr.Unauthorized("No autenticado")
	}

	sess, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.Unauthorized("Sesión expirada")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if !sess.IsAuthenticated(s.now()) {
		s.expire(ctx, id, sess)
		return nil, apperr.Unauthorized("Sesión expirada")
	}
	return sess, nil
}

// expire removes a dead session and records the event.
func (s *Service) expire(ctx context.Context, id string, sess *Session) {
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "session_expiry_cleanup_failed", slog.Any("error", err))
	}
	actor := ""
	if sess != nil && sess.Usuario != nil {
		actor = sess.Usuario.NombreUsuario
	}
	s.audit.Record(ctx, audit.Entry{Event: audit.EventSessionExpired, Actor: actor})
}

// tokenExpiry reads the exp claim without verifying the signature. The portal
// never trusts the token's contents for authorization; the claim only sizes
// the session TTL. An unreadable claim falls back to the configured TTL.
func (s *Service) tokenExpiry(token string, now time.Time) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return now.Add(s.sessionTTL)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return now.Add(s.sessionTTL)
	}
	return exp.Time
}

// roleNames flattens backend role records to their names.
func roleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.NombreRole)
	}
	return names
}

// filterModulos drops module records whose route is not in the portal
// catalogue. Unknown routes are logged so a backend catalogue drift is
// visible instead of silently rendering a broken menu entry.
func filterModulos(ctx context.Context, logger *slog.Logger, modulos []Modulo) []Modulo {
	kept := make([]Modulo, 0, len(modulos))
	for _, modulo := range modulos {
		if !navigation.KnownRoute(modulo.Ruta) {
			logger.WarnContext(ctx, "unknown_module_route_dropped",
				slog.String("ruta", modulo.Ruta),
				slog.String("modulo", modulo.NombreModulo),
			)
			continue
		}
		kept = append(kept, modulo)
	}
	return kept
}

// isUnauthorized reports whether err maps to HTTP 401.
func isUnauthorized(err error) bool {
	ae := apperr.As(err)
	return ae != nil && ae.HTTPStatus == 401
}
