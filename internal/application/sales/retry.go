package sales

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

// withRetry reintenta fn solo ante fallas transitorias del almacenamiento (serialización,
// deadlock, BUSY), con backoff exponencial y jitter. Validación, no encontrado y
// conflictos se devuelven de inmediato.
func (c *Coordinator) withRetry(ctx context.Context, op string, fn func() error) error {
	if c.cfg.MaxAttempts <= 1 {
		return deadlineAsTransient(ctx, op, fn())
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.RetryBackoff
	b.MaxInterval = 20 * c.cfg.RetryBackoff

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := fn()
		if err != nil && !domain.IsRetryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.cfg.MaxAttempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.log.Warn().Err(err).Str("op", op).Dur("wait", wait).Msg("falla transitoria, reintentando")
		}),
	)
	return deadlineAsTransient(ctx, op, err)
}

// deadlineAsTransient convierte el vencimiento del contexto (p. ej. durante la espera entre
// intentos) en falla de persistencia transitoria: el resultado es incierto y reintentar con
// el mismo ID es seguro.
func deadlineAsTransient(ctx context.Context, op string, err error) error {
	if err == nil || ctx.Err() == nil || errors.Is(err, domain.ErrPersistence) {
		return err
	}
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
		return err
	}
	return domain.NewTransientError(op, err)
}
