// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered inside the DICRI paginated
// envelope (`items`, `total`, `page`, `pageSize`, `totalPages`).
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPageSize is the number of items per page if not specified.
	DefaultPageSize = 20
	// MaxPageSize is the upper bound for items per page to prevent system abuse.
	MaxPageSize = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and pageSize from a request's query string.
type Params struct {
	Page     int
	PageSize int
}

// Offset returns the zero-based item offset derived from Page and PageSize.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Meta is the pagination metadata included in paginated responses.
type Meta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewMeta constructs pagination metadata for a response.
//
// It automatically calculates the TotalPages based on the total count and page size.
func NewMeta(page, pageSize, total int) Meta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return Meta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromRequest parses "page" and "pageSize" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid, negative, or excessive values are automatically clamped to
// [DefaultPage], [DefaultPageSize], or [MaxPageSize].
func FromRequest(r *http.Request) Params {
	page := parseIntParam(r, "page", DefaultPage)
	pageSize := parseIntParam(r, "pageSize", DefaultPageSize)

	if page < 1 {
		page = DefaultPage
	}

	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	return Params{Page: page, PageSize: pageSize}
}

// parseIntParam reads a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}

// Slice returns the window of a fully-materialized list corresponding to the
// requested page. The portal paginates upstream list responses locally when
// the backend endpoint does not page server-side.
func Slice[T any](items []T, params Params) []T {
	start := params.Offset()
	if start >= len(items) {
		return []T{}
	}

	end := start + params.PageSize
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}
