package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre SQLite (usable con db o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el repositorio. Pasar db o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, category, price_retail_cents, price_wholesale_cents, cost_cents, stock, created_at, updated_at`

// Upsert crea o reemplaza el producto. Un producto eliminado vuelve a quedar activo.
func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			price_retail_cents = excluded.price_retail_cents,
			price_wholesale_cents = excluded.price_wholesale_cents,
			cost_cents = excluded.cost_cents,
			stock = excluded.stock,
			deleted = 0,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Category,
		toCents(p.PriceRetail), toCents(p.PriceWholesale), toCents(p.Cost),
		p.Stock, toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	)
	if err != nil {
		return storeError("upsert product", err)
	}
	return nil
}

// GetByID obtiene un producto activo por ID; nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ? AND deleted = 0`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get product", err)
	}
	return p, nil
}

// List lista productos activos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	limit, offset := normalizePage(f.Limit, f.Offset)
	where := []string{"deleted = 0"}
	var args []any
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Search != "" {
		where = append(where, "name LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}
	args = append(args, limit, offset)

	rows, err := r.q.QueryContext(ctx, `SELECT `+productColumns+` FROM products WHERE `+
		strings.Join(where, " AND ")+` ORDER BY name, id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, storeError("list products", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, storeError("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list products", err)
	}
	return list, nil
}

// Delete marca el producto como eliminado; las ventas históricas conservan la referencia.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `UPDATE products SET deleted = 1, updated_at = ? WHERE id = ? AND deleted = 0`,
		toMillis(time.Now()), id)
	if err != nil {
		return storeError("delete product", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DecrementStock descuenta qty solo si alcanza (actualización condicional en una sentencia).
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, qty int64) (int64, error) {
	var after int64
	err := r.q.QueryRowContext(ctx, `
		UPDATE products SET stock = stock - ?, updated_at = ?
		WHERE id = ? AND deleted = 0 AND stock >= ?
		RETURNING stock`, qty, toMillis(time.Now()), id, qty).Scan(&after)
	if err == nil {
		return after, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, storeError("decrement stock", err)
	}
	var found int
	err = r.q.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id = ? AND deleted = 0`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return 0, storeError("decrement stock", err)
	}
	return 0, fmt.Errorf("product %s: %w", id, domain.ErrInsufficientStock)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (*entity.Product, error) {
	var (
		p                       entity.Product
		retail, wholesale, cost int64
		createdAt, updatedAt    int64
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Category, &retail, &wholesale, &cost, &p.Stock, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.PriceRetail = fromCents(retail)
	p.PriceWholesale = fromCents(wholesale)
	p.Cost = fromCents(cost)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return &p, nil
}
