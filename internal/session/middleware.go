// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package session

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/platform/respond"
	"github.com/mp-gt/dicri-portal/internal/upstream"
)

// SessionLoader resolves the request's session id, loads the session and
// primes the context: session, session id and the upstream bearer token.
//
// Loading is best-effort; requests without a valid session simply continue
// anonymously and the Require* guards decide what is reachable. This keeps
// the loader on every route (login included) without special cases.
func SessionLoader(store Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			id := IDFromRequest(request)
			if id == "" {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := WithID(request.Context(), id)

			sess, err := store.Get(ctx, id)
			switch {
			case errors.Is(err, ErrNotFound):
				// Stale client id: proceed anonymously.
			case err != nil:
				logger.WarnContext(ctx, "session_load_failed", slog.Any("error", err))
			case sess.IsAuthenticated(time.Now()):
				ctx = WithContext(ctx, sess)
				ctx = upstream.WithToken(ctx, sess.Token)
			}

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireSession rejects anonymous requests with a 401 envelope.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		sess := FromContext(request.Context())
		if !sess.IsAuthenticated(time.Now()) {
			respond.Error(writer, request, apperr.Unauthorized("No autenticado"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole rejects authenticated requests lacking every named role with a
// 403 envelope. Must be mounted behind [RequireSession].
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			sess := FromContext(request.Context())
			if !sess.HasRole(roles...) {
				respond.Error(writer, request, apperr.Forbidden("Acceso restringido"))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
