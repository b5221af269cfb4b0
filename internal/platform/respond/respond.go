// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

// Package respond provides HTTP response helpers used by all portal handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// It ensures that every response (success or error) across the entire portal
// follows the DICRI envelope `{success, message, data}` — the same contract
// the backend API speaks — so clients parse one shape everywhere.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/platform/ctxutil"
	"github.com/mp-gt/dicri-portal/pkg/pagination"
)

// Envelope is the JSON envelope for every portal response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageData is the inner payload of paginated list responses.
type PageData struct {
	Items      interface{} `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the standard envelope.
func OK(writer http.ResponseWriter, message string, data interface{}) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 Created response with data wrapped in the standard envelope.
func Created(writer http.ResponseWriter, message string, data interface{}) {
	JSON(writer, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Paginated writes a 200 OK response with the paginated DICRI envelope.
func Paginated(writer http.ResponseWriter, message string, items interface{}, meta pagination.Meta) {
	JSON(writer, http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data: PageData{
			Items:      items,
			Total:      meta.Total,
			Page:       meta.Page,
			PageSize:   meta.PageSize,
			TotalPages: meta.TotalPages,
		},
	})
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		// Unexpected internal error: log full details but hide them from the client.
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side or upstream issues.
	if appError.HTTPStatus >= 500 {
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, Envelope{
		Success: false,
		Message: appError.Message,
	})
}
