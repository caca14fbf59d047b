package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SuspendedSaleRepository = (*SuspendedSaleRepo)(nil)

// SuspendedSaleRepo carritos en espera; las líneas se guardan como JSON.
type SuspendedSaleRepo struct {
	q Querier
}

// NewSuspendedSaleRepository construye el repositorio.
func NewSuspendedSaleRepository(q Querier) *SuspendedSaleRepo {
	return &SuspendedSaleRepo{q: q}
}

const suspendedColumns = `id, customer_name, items, date, total_cents`

func (r *SuspendedSaleRepo) Create(ctx context.Context, s *entity.SuspendedSale) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("marshal suspended items: %w", err)
	}
	_, err = r.q.ExecContext(ctx, `INSERT INTO suspended_sales (`+suspendedColumns+`) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.CustomerName, string(items), toMillis(s.Date), toCents(s.Total))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("suspended sale %s: %w", s.ID, domain.ErrDuplicate)
		}
		return storeError("insert suspended sale", err)
	}
	return nil
}

func (r *SuspendedSaleRepo) List(ctx context.Context) ([]*entity.SuspendedSale, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+suspendedColumns+` FROM suspended_sales ORDER BY date DESC, id`)
	if err != nil {
		return nil, storeError("list suspended sales", err)
	}
	defer rows.Close()
	var list []*entity.SuspendedSale
	for rows.Next() {
		s, err := scanSuspended(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list suspended sales", err)
	}
	return list, nil
}

// Take obtiene y elimina en una sola sentencia: de dos llamadas concurrentes solo una recibe el carrito.
func (r *SuspendedSaleRepo) Take(ctx context.Context, id string) (*entity.SuspendedSale, error) {
	row := r.q.QueryRowContext(ctx, `DELETE FROM suspended_sales WHERE id = ? RETURNING `+suspendedColumns, id)
	s, err := scanSuspended(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("suspended sale %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

func (r *SuspendedSaleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM suspended_sales WHERE id = ?`, id)
	if err != nil {
		return storeError("delete suspended sale", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("suspended sale %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanSuspended(s rowScanner) (*entity.SuspendedSale, error) {
	var (
		sale        entity.SuspendedSale
		items       string
		date, total int64
	)
	if err := s.Scan(&sale.ID, &sale.CustomerName, &items, &date, &total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, storeError("scan suspended sale", err)
	}
	if err := json.Unmarshal([]byte(items), &sale.Items); err != nil {
		return nil, fmt.Errorf("unmarshal suspended items: %w", err)
	}
	sale.Date = fromMillis(date)
	sale.Total = fromCents(total)
	return &sale, nil
}
