// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam retrieves a named URL parameter and parses it as a positive integer.

All DICRI entity identifiers are backend-assigned numeric ids.

Returns:
  - int: The parsed identifier
  - error: apperr.ValidationError if the parameter is absent or not a positive integer
*/
func IntParam(request *http.Request, name string) (int, error) {
	raw := chi.URLParam(request, name)

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, apperr.ValidationError("Identificador inválido: " + name)
	}

	return value, nil
}

/*
QueryInt parses an optional integer query parameter.

Returns nil when the parameter is absent or malformed, so list filters
degrade to "no filter" instead of failing the whole request.
*/
func QueryInt(request *http.Request, name string) *int {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}

	return &value
}

/*
QueryBool parses an optional boolean query parameter ("true"/"false").
*/
func QueryBool(request *http.Request, name string) *bool {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}

	return &value
}
