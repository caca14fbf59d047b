package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ProductFilter filtros para listar el catálogo.
type ProductFilter struct {
	Category string
	Search   string // coincidencia parcial por nombre
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Upsert crea o reemplaza el producto (edición administrativa, incluye Stock).
	Upsert(ctx context.Context, product *entity.Product) error
	// GetByID devuelve nil, nil si no existe o está eliminado.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Delete marca el producto como eliminado. ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	// DecrementStock descuenta qty solo si stock >= qty y devuelve el stock resultante.
	// ErrNotFound si el producto no existe; ErrInsufficientStock si no alcanza.
	DecrementStock(ctx context.Context, id string, qty int64) (int64, error)
}
