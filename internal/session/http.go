// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mp-gt/dicri-portal/internal/platform/constants"
	requestutil "github.com/mp-gt/dicri-portal/internal/platform/request"
	"github.com/mp-gt/dicri-portal/internal/platform/respond"
)

// Handler exposes the session lifecycle over HTTP under /auth.
type Handler struct {
	service      *Service
	secureCookie bool
}

// NewHandler constructs the auth [Handler]. secureCookie should be true in
// production so the session cookie is only sent over TLS.
func NewHandler(service *Service, secureCookie bool) *Handler {
	return &Handler{service: service, secureCookie: secureCookie}
}

// Routes mounts the auth endpoints.
func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()

	router.Post("/login", h.handleLogin)
	router.Get("/verify", h.handleVerify)
	router.Post("/logout", h.handleLogout)

	router.Group(func(protected chi.Router) {
		protected.Use(RequireSession)
		protected.Get("/me", h.handleMe)
		protected.Post("/change-password", h.handleChangePassword)
	})

	return router
}

// sessionData is the /auth response payload shape.
type sessionData struct {
	SessionID string   `json:"session_id,omitempty"`
	Usuario   *Usuario `json:"usuario"`
	Perfiles  []Perfil `json:"perfiles,omitempty"`
	Roles     []string `json:"roles"`
	Modulos   []Modulo `json:"modulos"`
}

/*
handleLogin authenticates credentials and establishes a session.

	POST /auth/login
	{"nombre_usuario": "...", "clave": "..."}

On success the session id is returned in the payload and mirrored into the
session cookie for browser clients.
*/
func (h *Handler) handleLogin(writer http.ResponseWriter, request *http.Request) {
	input := LoginInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := h.service.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	h.setSessionCookie(writer, result.SessionID)
	respond.OK(writer, "Inicio de sesión exitoso", sessionData{
		SessionID: result.SessionID,
		Usuario:   result.Session.Usuario,
		Perfiles:  result.Session.Perfiles,
		Roles:     result.Session.Roles,
		Modulos:   result.Session.Modulos,
	})
}

/*
handleVerify revalidates the current session against the backend and returns
the refreshed snapshot.

	GET /auth/verify
*/
func (h *Handler) handleVerify(writer http.ResponseWriter, request *http.Request) {
	sess, err := h.service.Verify(request.Context(), IDFromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Sesión verificada", sessionData{
		Usuario:  sess.Usuario,
		Perfiles: sess.Perfiles,
		Roles:    sess.Roles,
		Modulos:  sess.Modulos,
	})
}

/*
handleLogout destroys the session. Repeating a logout, or logging out an
expired session, still answers 200.

	POST /auth/logout
*/
func (h *Handler) handleLogout(writer http.ResponseWriter, request *http.Request) {
	if err := h.service.Logout(request.Context(), IDFromRequest(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	h.clearSessionCookie(writer)
	respond.OK(writer, "Sesión cerrada", nil)
}

/*
handleMe returns the cached session snapshot without an upstream round trip.

	GET /auth/me
*/
func (h *Handler) handleMe(writer http.ResponseWriter, request *http.Request) {
	sess := FromContext(request.Context())
	respond.OK(writer, "Sesión activa", sessionData{
		Usuario:  sess.Usuario,
		Perfiles: sess.Perfiles,
		Roles:    sess.Roles,
		Modulos:  sess.Modulos,
	})
}

/*
handleChangePassword forwards a password change to the backend.

	POST /auth/change-password
	{"clave_actual": "...", "clave_nueva": "..."}
*/
func (h *Handler) handleChangePassword(writer http.ResponseWriter, request *http.Request) {
	input := ChangePasswordInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.service.ChangePassword(request.Context(), IDFromContext(request.Context()), input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Contraseña actualizada", nil)
}

// setSessionCookie mirrors the session id into an HttpOnly cookie.
func (h *Handler) setSessionCookie(writer http.ResponseWriter, id string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionIDCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookie expires the session cookie.
func (h *Handler) clearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionIDCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
