package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo libro de ventas sobre SQLite. Create y UpdateItems escriben varias filas:
// usarlos con un Querier de transacción.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el repositorio. Pasar db o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, date, type, total_cents, seller_id, client_id, client_name, updated_at`

// Create inserta cabecera y líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	var clientID sql.NullString
	if s.ClientID != "" {
		clientID = sql.NullString{String: s.ClientID, Valid: true}
	}
	_, err := r.q.ExecContext(ctx, `INSERT INTO sales (`+saleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, toMillis(s.Date), string(s.Type), toCents(s.TotalAmount), s.SellerID,
		clientID, s.ClientName, toMillis(s.UpdatedAt),
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
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, line, product_id, product_name, quantity, unit_price_cents, subtotal_cents)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.ID, i, it.ProductID, it.ProductName, it.Quantity, toCents(it.UnitPrice), toCents(it.Subtotal),
		)
		if err != nil {
			return storeError("insert sale item", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas; nil, nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id)
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	if f.From != nil {
		where = append(where, "date >= ?")
		args = append(args, toMillis(*f.From))
	}
	if f.To != nil {
		where = append(where, "date < ?")
		args = append(args, toMillis(*f.To))
	}
	if f.SellerID != "" {
		where = append(where, "seller_id = ?")
		args = append(args, f.SellerID)
	}
	if f.ClientID != "" {
		where = append(where, "client_id = ?")
		args = append(args, f.ClientID)
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	query := `SELECT ` + saleColumns + ` FROM sales`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("list sales", err)
	}
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, storeError("scan sale", err)
		}
		list = append(list, s)
	}
	// Cerrar antes de leer las líneas: con una sola conexión el cursor abierto la retiene.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, storeError("list sales", err)
	}
	for _, s := range list {
		if s.Items, err = r.items(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateItems reemplaza líneas y total (enmienda). No toca stock ni deuda.
func (r *SaleRepo) UpdateItems(ctx context.Context, s *entity.Sale) error {
	res, err := r.q.ExecContext(ctx, `UPDATE sales SET total_cents = ?, updated_at = ? WHERE id = ?`,
		toCents(s.TotalAmount), toMillis(s.UpdatedAt), s.ID)
	if err != nil {
		return storeError("update sale", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sale %s: %w", s.ID, domain.ErrNotFound)
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id = ?`, s.ID); err != nil {
		return storeError("delete sale items", err)
	}
	return r.insertItems(ctx, s)
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT product_id, product_name, quantity, unit_price_cents, subtotal_cents
		FROM sale_items WHERE sale_id = ? ORDER BY line`, saleID)
	if err != nil {
		return nil, storeError("list sale items", err)
	}
	defer rows.Close()
	var items []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		var price, subtotal int64
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &price, &subtotal); err != nil {
			return nil, storeError("scan sale item", err)
		}
		it.UnitPrice = fromCents(price)
		it.Subtotal = fromCents(subtotal)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list sale items", err)
	}
	return items, nil
}

func scanSale(s rowScanner) (*entity.Sale, error) {
	var (
		sale            entity.Sale
		saleType        string
		total           int64
		clientID        sql.NullString
		date, updatedAt int64
	)
	if err := s.Scan(&sale.ID, &date, &saleType, &total, &sale.SellerID, &clientID, &sale.ClientName, &updatedAt); err != nil {
		return nil, err
	}
	sale.Type = entity.SaleType(saleType)
	sale.TotalAmount = fromCents(total)
	sale.ClientID = clientID.String
	sale.Date = fromMillis(date)
	sale.UpdatedAt = fromMillis(updatedAt)
	return &sale, nil
}
