package sqlite

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo bitácora de movimientos de stock sobre SQLite.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el repositorio.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_movements (id, product_id, type, quantity, stock_after, reference, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProductID, m.Type, m.Quantity, m.StockAfter, m.Reference, toMillis(m.CreatedAt), m.CreatedBy)
	if err != nil {
		return storeError("insert stock movement", err)
	}
	return nil
}

func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	limit, offset = normalizePage(limit, offset)
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, product_id, type, quantity, stock_after, reference, created_at, created_by
		FROM stock_movements WHERE product_id = ?
		ORDER BY created_at DESC, id LIMIT ? OFFSET ?`, productID, limit, offset)
	if err != nil {
		return nil, storeError("list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.StockAfter, &m.Reference, &createdAt, &m.CreatedBy); err != nil {
			return nil, storeError("scan stock movement", err)
		}
		m.CreatedAt = fromMillis(createdAt)
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list stock movements", err)
	}
	return list, nil
}
