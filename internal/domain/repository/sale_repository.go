package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SaleFilter filtros del libro de ventas. Campos vacíos no filtran.
type SaleFilter struct {
	From     *time.Time
	To       *time.Time
	SellerID string
	ClientID string
	Type     entity.SaleType
	Limit    int
	Offset   int
}

// SaleRepository define el puerto de persistencia del libro de ventas (cabecera + líneas).
type SaleRepository interface {
	// Create inserta cabecera y líneas. ErrDuplicate si el ID ya existe.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus líneas en orden; nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// List devuelve cabeceras con sus líneas, más recientes primero.
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	// UpdateItems reemplaza líneas y total de una venta existente. ErrNotFound si no existe.
	UpdateItems(ctx context.Context, sale *entity.Sale) error
}
