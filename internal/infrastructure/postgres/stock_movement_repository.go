package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo bitácora de movimientos de stock (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create registra el movimiento; Reference apunta a la venta que lo originó.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, product_id, type, quantity, stock_after, reference, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.ProductID, m.Type, m.Quantity, m.StockAfter, m.Reference, m.CreatedAt, m.CreatedBy)
	if err != nil {
		return storeError("insert stock movement", err)
	}
	return nil
}

// ListByProduct lista movimientos de un producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	limit, offset = normalizePage(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, type, quantity, stock_after, reference, created_at, created_by
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`, productID, limit, offset)
	if err != nil {
		return nil, storeError("list stock movements", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.StockMovement, error) {
		var m entity.StockMovement
		err := row.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.StockAfter, &m.Reference, &m.CreatedAt, &m.CreatedBy)
		return &m, err
	})
	if err != nil {
		return nil, storeError("list stock movements", err)
	}
	return list, nil
}
