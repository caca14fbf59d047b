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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo libro de ventas (cabecera + líneas). Create y UpdateItems escriben varias filas:
// usarlos con una tx.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, date, type, total_amount, seller_id, client_id, client_name, updated_at`

// Create persiste cabecera y líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `INSERT INTO sales (`+saleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Date, string(s.Type), s.TotalAmount, s.SellerID, nullIfEmpty(s.ClientID), s.ClientName, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sale %s: %w", s.ID, domain.ErrDuplicate)
		}
		return storeError("insert sale", err)
	}
	return r.insertItems(ctx, s)
}

func (r *SaleRepo) insertItems(ctx context.Context, s *entity.Sale) error {
	for i, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (sale_id, line, product_id, product_name, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.ID, i, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal,
		)
		if err != nil {
			return storeError("insert sale item", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas en orden.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get sale", err)
	}
	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

// List devuelve ventas filtradas, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	limit, offset := normalizePage(f.Limit, f.Offset)
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date < $%d", *f.To)
	}
	if f.SellerID != "" {
		add("seller_id = $%d", f.SellerID)
	}
	if f.ClientID != "" {
		add("client_id = $%d", f.ClientID)
	}
	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	query := `SELECT ` + saleColumns + ` FROM sales`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY date DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("list sales", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Sale, error) {
		return scanSale(row)
	})
	if err != nil {
		return nil, storeError("list sales", err)
	}
	// Las líneas se leen después de cerrar el cursor (una tx usa una sola conexión).
	for _, s := range list {
		if s.Items, err = r.items(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateItems reemplaza líneas y total. No toca stock ni deuda.
func (r *SaleRepo) UpdateItems(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sales SET total_amount = $2, updated_at = $3 WHERE id = $1`,
		s.ID, s.TotalAmount, s.UpdatedAt)
	if err != nil {
		return storeError("update sale", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("sale %s: %w", s.ID, domain.ErrNotFound)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, s.ID); err != nil {
		return storeError("delete sale items", err)
	}
	return r.insertItems(ctx, s)
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, product_name, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY line`, saleID)
	if err != nil {
		return nil, storeError("list sale items", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.SaleItem, error) {
		var it entity.SaleItem
		err := row.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.Subtotal)
		return it, err
	})
	if err != nil {
		return nil, storeError("list sale items", err)
	}
	return items, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s        entity.Sale
		saleType string
		clientID *string
	)
	if err := row.Scan(&s.ID, &s.Date, &saleType, &s.TotalAmount, &s.SellerID, &clientID, &s.ClientName, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Type = entity.SaleType(saleType)
	if clientID != nil {
		s.ClientID = *clientID
	}
	return &s, nil
}
