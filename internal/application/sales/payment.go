package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// RegisterPayment abona a la deuda del cliente: deuda = max(0, deuda - monto), calculado
// por el almacenamiento sobre el valor comprometido. El abono queda en la bitácora en la misma tx.
func (c *Coordinator) RegisterPayment(ctx context.Context, in RegisterPaymentInput) (*entity.Payment, error) {
	if err := validatePayment(in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TxTimeout)
	defer cancel()

	if in.ID != "" {
		existing, err := c.payments.GetByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return replayPayment(existing, in)
		}
	} else {
		in.ID = c.ids.NewID()
	}

	client, err := c.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("client %s: %w", in.ClientID, domain.ErrNotFound)
	}

	payment := &entity.Payment{
		ID:       in.ID,
		ClientID: in.ClientID,
		Amount:   in.Amount,
		SellerID: in.SellerID,
		Date:     c.clock.Now(),
	}
	err = c.withRetry(ctx, "register payment", func() error {
		return c.tx.RunPayment(ctx, func(clientRepo repository.ClientRepository, paymentRepo repository.PaymentRepository) error {
			debt, err := clientRepo.ReduceDebt(ctx, payment.ClientID, payment.Amount)
			if err != nil {
				return err
			}
			payment.DebtAfter = debt
			return paymentRepo.Create(ctx, payment)
		})
	})
	if errors.Is(err, domain.ErrDuplicate) {
		existing, getErr := c.payments.GetByID(ctx, in.ID)
		if getErr != nil {
			return nil, getErr
		}
		if existing != nil {
			return replayPayment(existing, in)
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	c.log.Info().Str("payment_id", payment.ID).Str("client_id", payment.ClientID).
		Str("amount", payment.Amount.StringFixed(2)).Str("debt", payment.DebtAfter.StringFixed(2)).
		Msg("abono registrado")
	return payment, nil
}

func replayPayment(existing *entity.Payment, in RegisterPaymentInput) (*entity.Payment, error) {
	if existing.ClientID != in.ClientID || !existing.Amount.Equal(in.Amount) {
		return nil, fmt.Errorf("payment %s: %w", in.ID, domain.ErrIdempotencyConflict)
	}
	return existing, nil
}

// ListPayments bitácora de abonos de un cliente, más recientes primero.
// ErrNotFound si el cliente no existe.
func (c *Coordinator) ListPayments(ctx context.Context, clientID string, limit, offset int) ([]*entity.Payment, error) {
	client, err := c.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("client %s: %w", clientID, domain.ErrNotFound)
	}
	return c.payments.ListByClient(ctx, clientID, limit, offset)
}
