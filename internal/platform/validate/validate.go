// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Client-side checks here mirror the backend's validation rules as a UX
// optimization — they must never replace them. The backend remains the
// authoritative validator for every mutation.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Cuerpo JSON inválido")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []string
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "es requerido")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("máximo %d caracteres", max))
	}
	return v
}

// MinLen fails if the Unicode character count of the trimmed value is below min.
//
// Trimming happens before counting so that padding spaces cannot satisfy a
// minimum-length rule (the backend trims too).
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		v.add(field, fmt.Sprintf("mínimo %d caracteres", min))
	}
	return v
}

// Positive fails if the integer value is zero or negative.
func (v *Validator) Positive(field string, value int) *Validator {
	if value <= 0 {
		v.add(field, "debe ser un identificador positivo")
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("debe ser uno de: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("justificacion", tooShort, "mínimo 10 caracteres")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a VALIDATION_ERROR [apperr.AppError] if any rules failed,
// or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validación fallida: " + strings.Join(v.errs, "; "))
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a field failure to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, field+" "+message)
}
