package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SuspendedSaleRepository define el puerto de persistencia de carritos en espera.
type SuspendedSaleRepository interface {
	Create(ctx context.Context, sale *entity.SuspendedSale) error
	// List ordena por fecha descendente y luego por ID.
	List(ctx context.Context) ([]*entity.SuspendedSale, error)
	// Take obtiene y elimina el carrito en una sola operación. ErrNotFound si no existe.
	Take(ctx context.Context, id string) (*entity.SuspendedSale, error)
	// Delete elimina el carrito. ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
