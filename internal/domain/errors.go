package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrPersistence  = errors.New("fallo de persistencia")
	ErrTransient    = errors.New("fallo transitorio de persistencia")

	// Variantes de ErrConflict: errors.Is(err, ErrConflict) es true para ambas.
	ErrInsufficientStock   = fmt.Errorf("%w: stock insuficiente", ErrConflict)
	ErrIdempotencyConflict = fmt.Errorf("%w: el id ya existe con otro contenido", ErrConflict)
)

// FieldError detalle de validación por campo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError se rechaza antes de cualquier mutación. Unwrap devuelve ErrInvalidInput.
type ValidationError struct {
	Message string
	Details []FieldError
}

// NewValidationError construye un error de validación con sus detalles.
func NewValidationError(message string, details ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// AsValidationError extrae el *ValidationError de la cadena, si existe.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// StoreError envuelve fallas del almacenamiento (BD caída, timeout, error del driver).
// Transient indica que reintentar puede tener éxito (serialización, deadlock, BUSY).
type StoreError struct {
	Op        string
	Transient bool
	Err       error
}

// NewStoreError envuelve err como falla de persistencia no transitoria.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// NewTransientError envuelve err como falla de persistencia reintentable.
func NewTransientError(op string, err error) *StoreError {
	return &StoreError{Op: op, Transient: true, Err: err}
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is permite errors.Is(err, ErrPersistence) y errors.Is(err, ErrTransient).
func (e *StoreError) Is(target error) bool {
	if target == ErrPersistence {
		return true
	}
	return e.Transient && target == ErrTransient
}

// IsRetryable indica si un error puede reintentarse automáticamente.
// Validación, no encontrado y conflictos nunca se reintentan.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return false
	}
	return errors.Is(err, ErrTransient)
}
