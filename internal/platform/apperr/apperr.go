// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

/*
Package apperr defines the centralized error handling framework for the portal.

It provides a rich error type that bridges the gap between upstream API
failures and the HTTP responses the portal serves to its own clients.

Architecture:

  - AppError: A struct containing a machine-readable Code and user-friendly messages.
  - Taxonomy: Transport, authentication, authorization, validation, not-found
    and upstream server faults each map to a distinct constructor.
  - Mapping: Explicit mapping from AppError to standard HTTP status codes.

Every error that leaves the service layer should be wrapped as an [AppError]
to ensure consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the portal gateway.
//
// It carries an HTTP status code, a machine-readable code and a client-safe
// message in the language the backend uses for its own envelope messages.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to
// clients to avoid leaking upstream implementation details.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Expediente no encontrado")
func NotFound(msg string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    msg,
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for state-transition violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError].
func ValidationError(msg string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(msg string) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    msg,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server & Upstream Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "Ocurrió un error inesperado",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Upstream creates a 502 [AppError] for transport failures or 5xx responses
// from the DICRI backend API.
func Upstream(msg string, cause error) *AppError {
	return &AppError{
		Code:       "UPSTREAM_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
