package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ClientFilter filtros para listar clientes.
type ClientFilter struct {
	Search   string // nombre o nombre del negocio
	WithDebt bool   // solo clientes con deuda > 0
	Limit    int
	Offset   int
}

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	// Upsert crea el cliente (con deuda inicial) o actualiza sus datos sin tocar la deuda.
	Upsert(ctx context.Context, client *entity.Client) error
	// GetByID devuelve nil, nil si no existe o está eliminado.
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]*entity.Client, error)
	Delete(ctx context.Context, id string) error
	// AddDebt suma amount a la deuda comprometida y devuelve el saldo resultante.
	AddDebt(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error)
	// ReduceDebt resta amount con piso en cero y devuelve el saldo resultante.
	ReduceDebt(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error)
}
