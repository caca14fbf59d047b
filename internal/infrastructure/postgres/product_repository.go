package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, category, price_retail, price_wholesale, cost, stock, created_at, updated_at`

// Upsert crea o reemplaza el producto (incluye Stock). Un producto eliminado vuelve a quedar activo.
func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			price_retail = EXCLUDED.price_retail,
			price_wholesale = EXCLUDED.price_wholesale,
			cost = EXCLUDED.cost,
			stock = EXCLUDED.stock,
			deleted = FALSE,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Category, p.PriceRetail, p.PriceWholesale, p.Cost, p.Stock, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return storeError("upsert product", err)
	}
	return nil
}

// GetByID obtiene un producto activo por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 AND NOT deleted`, id).Scan(
		&p.ID, &p.Name, &p.Category, &p.PriceRetail, &p.PriceWholesale, &p.Cost, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get product", err)
	}
	return &p, nil
}

// List lista productos activos con filtros y paginación.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	limit, offset := normalizePage(f.Limit, f.Offset)
	where := []string{"NOT deleted"}
	var args []any
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY name, id LIMIT $%d OFFSET $%d`,
		productColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("list products", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.PriceRetail, &p.PriceWholesale, &p.Cost,
			&p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, storeError("scan product", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list products", err)
	}
	return list, nil
}

// Delete marca el producto como eliminado; las ventas históricas conservan la referencia.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET deleted = TRUE, updated_at = now() WHERE id = $1 AND NOT deleted`, id)
	if err != nil {
		return storeError("delete product", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DecrementStock descuenta qty solo si alcanza. La fila queda bloqueada hasta el fin de la tx,
// así dos ventas concurrentes no pueden sobrevender.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, qty int64) (int64, error) {
	var after int64
	err := r.q.QueryRow(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND NOT deleted AND stock >= $2
		RETURNING stock`, id, qty).Scan(&after)
	if err == nil {
		return after, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, storeError("decrement stock", err)
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1 AND NOT deleted)`, id).Scan(&exists); err != nil {
		return 0, storeError("decrement stock", err)
	}
	if !exists {
		return 0, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return 0, fmt.Errorf("product %s: %w", id, domain.ErrInsufficientStock)
}
