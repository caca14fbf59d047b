package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// HeaderSellerID identifica al vendedor que origina la operación.
const HeaderSellerID = "X-Seller-ID"

// Keys en c.Locals.
const (
	LocalSellerID = "seller_id"
	LocalError    = "handler_error" // error interno registrado por writeError
)

// RequireSeller exige el header X-Seller-ID y lo deja en c.Locals.
func RequireSeller() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sellerID := strings.TrimSpace(c.Get(HeaderSellerID))
		if sellerID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "MISSING_SELLER",
				Message: HeaderSellerID + " header requerido",
			})
		}
		c.Locals(LocalSellerID, sellerID)
		return c.Next()
	}
}

// GetSellerID devuelve el vendedor del contexto (después de RequireSeller).
func GetSellerID(c *fiber.Ctx) string {
	v := c.Locals(LocalSellerID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RequestLogger registra cada petición con método, ruta, estado y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	httpLog := log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		logErr := err
		if logErr == nil {
			logErr, _ = c.Locals(LocalError).(error)
		}
		ev := httpLog.Info()
		switch {
		case logErr != nil || status >= fiber.StatusInternalServerError:
			ev = httpLog.Error().Err(logErr)
		case status >= fiber.StatusBadRequest:
			ev = httpLog.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("seller_id", c.Get(HeaderSellerID)).
			Msg("petición HTTP")
		return err
	}
}
