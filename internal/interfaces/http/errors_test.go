package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", domain.NewValidationError("venta inválida", domain.FieldError{Field: "id", Message: "es obligatorio"}), fiber.StatusBadRequest, "VALIDATION"},
		{"no encontrado", fmt.Errorf("product x: %w", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{"stock", fmt.Errorf("product x: %w", domain.ErrInsufficientStock), fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{"idempotencia", domain.ErrIdempotencyConflict, fiber.StatusConflict, "IDEMPOTENCY_CONFLICT"},
		{"conflicto", domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
		{"persistencia", domain.NewTransientError("insert sale", errors.New("busy")), fiber.StatusServiceUnavailable, "PERSISTENCE"},
		{"desconocido", errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorResponse(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
			if status >= fiber.StatusInternalServerError {
				assert.NotContains(t, body.Message, "boom")
				assert.NotContains(t, body.Message, "busy")
			}
		})
	}

	_, body := errorResponse(domain.NewValidationError("venta inválida", domain.FieldError{Field: "id", Message: "es obligatorio"}))
	assert.Equal(t, "venta inválida", body.Message)
	assert.Len(t, body.Details, 1)
}

func TestWriteError_InternoNoExponeDetalleYSeRegistra(t *testing.T) {
	var logs bytes.Buffer
	log := logger.NewWithWriter(logger.Config{Env: "production", Level: "info"}, &logs)

	app := fiber.New()
	app.Use(RequestLogger(log))
	app.Get("/falla", func(c *fiber.Ctx) error {
		return writeError(c, errors.New("dial tcp 10.0.0.5:5432: password authentication failed"))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/falla", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "INTERNAL", body.Code)
	assert.Equal(t, "error interno", body.Message)
	assert.NotContains(t, string(raw), "10.0.0.5")

	assert.Contains(t, logs.String(), "password authentication failed")
	assert.Contains(t, logs.String(), `"status":500`)
}
