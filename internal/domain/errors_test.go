package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("venta inválida",
		FieldError{Field: "items", Message: "al menos una línea"},
		FieldError{Field: "seller_id", Message: "obligatorio"},
	)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "venta inválida (items: al menos una línea; seller_id: obligatorio)", err.Error())

	wrapped := fmt.Errorf("create sale: %w", err)
	ve, ok := AsValidationError(wrapped)
	assert.True(t, ok)
	assert.Len(t, ve.Details, 2)
}

func TestConflictVariants(t *testing.T) {
	assert.ErrorIs(t, ErrInsufficientStock, ErrConflict)
	assert.ErrorIs(t, ErrIdempotencyConflict, ErrConflict)
	assert.NotErrorIs(t, ErrInsufficientStock, ErrIdempotencyConflict)
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")

	permanent := NewStoreError("insert sale", cause)
	assert.ErrorIs(t, permanent, ErrPersistence)
	assert.NotErrorIs(t, permanent, ErrTransient)
	assert.ErrorIs(t, permanent, cause)
	assert.Equal(t, "insert sale: connection reset", permanent.Error())

	transient := NewTransientError("decrement stock", cause)
	assert.ErrorIs(t, transient, ErrPersistence)
	assert.ErrorIs(t, transient, ErrTransient)
}

func TestIsRetryable(t *testing.T) {
	cause := errors.New("busy")
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"validación", NewValidationError("x"), false},
		{"no encontrado", fmt.Errorf("get: %w", ErrNotFound), false},
		{"stock insuficiente", ErrInsufficientStock, false},
		{"persistencia permanente", NewStoreError("op", cause), false},
		{"transitorio", NewTransientError("op", cause), true},
		{"transitorio envuelto", fmt.Errorf("run sale: %w", NewTransientError("op", cause)), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryable(tc.err))
		})
	}
}
