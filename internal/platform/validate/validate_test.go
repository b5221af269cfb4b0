// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "nombre_caso", "Allanamiento zona 1", false},
		{"empty_string", "nombre_caso", "", true},
		{"whitespace_only", "nombre_caso", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_MinLen checks the trimmed minimum-length rule used by the
rejection justification (boundary at exactly the minimum).
*/
func TestValidator_MinLen(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		min     int
		isValid bool
	}{
		{"exactly_min", "1234567890", 10, true},
		{"one_below_min", "123456789", 10, false},
		{"padded_below_min", "  123456789  ", 10, false},
		{"padded_at_min", "  1234567890  ", 10, true},
		{"empty", "", 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.MinLen("justificacion", tt.value, tt.min)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_OneOf checks membership validation against the review states.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("estado_revision", "PENDIENTE_REVISION",
		"EN_REGISTRO", "PENDIENTE_REVISION", "APROBADO", "RECHAZADO")
	assert.False(t, v.HasErrors())

	v2 := &validate.Validator{}
	v2.OneOf("estado_revision", "ARCHIVADO",
		"EN_REGISTRO", "PENDIENTE_REVISION", "APROBADO", "RECHAZADO")
	assert.True(t, v2.HasErrors())
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("codigo_caso", "MP001-2026-1234").
		MinLen("nombre_caso", "Robo agravado", 3).
		MaxLen("nombre_caso", "Robo agravado", 200).
		Positive("id_fiscalia", 4).
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("codigo_caso", "").       // Fails
		MinLen("justificacion", "corta", 10). // Fails
		Positive("id_fiscalia", 0).        // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}
