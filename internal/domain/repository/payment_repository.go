package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// PaymentRepository bitácora de abonos.
type PaymentRepository interface {
	// Create inserta el abono. ErrDuplicate si el ID ya existe.
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Payment, error)
}
