package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SuspendedSaleRepository = (*SuspendedSaleRepo)(nil)

// SuspendedSaleRepo carritos en espera; las líneas se guardan en JSONB.
type SuspendedSaleRepo struct {
	q Querier
}

// NewSuspendedSaleRepository construye el adaptador.
func NewSuspendedSaleRepository(q Querier) *SuspendedSaleRepo {
	return &SuspendedSaleRepo{q: q}
}

const suspendedColumns = `id, customer_name, items, date, total`

func (r *SuspendedSaleRepo) Create(ctx context.Context, s *entity.SuspendedSale) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("marshal suspended items: %w", err)
	}
	_, err = r.q.Exec(ctx, `INSERT INTO suspended_sales (`+suspendedColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.CustomerName, items, s.Date, s.Total)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("suspended sale %s: %w", s.ID, domain.ErrDuplicate)
		}
		return storeError("insert suspended sale", err)
	}
	return nil
}

func (r *SuspendedSaleRepo) List(ctx context.Context) ([]*entity.SuspendedSale, error) {
	rows, err := r.q.Query(ctx, `SELECT `+suspendedColumns+` FROM suspended_sales ORDER BY date DESC, id`)
	if err != nil {
		return nil, storeError("list suspended sales", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.SuspendedSale, error) {
		return scanSuspended(row)
	})
	if err != nil {
		return nil, storeError("list suspended sales", err)
	}
	return list, nil
}

// Take obtiene y elimina en una sola sentencia (DELETE ... RETURNING).
func (r *SuspendedSaleRepo) Take(ctx context.Context, id string) (*entity.SuspendedSale, error) {
	s, err := scanSuspended(r.q.QueryRow(ctx, `DELETE FROM suspended_sales WHERE id = $1 RETURNING `+suspendedColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("suspended sale %s: %w", id, domain.ErrNotFound)
		}
		return nil, storeError("take suspended sale", err)
	}
	return s, nil
}

func (r *SuspendedSaleRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM suspended_sales WHERE id = $1`, id)
	if err != nil {
		return storeError("delete suspended sale", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("suspended sale %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanSuspended(row pgx.Row) (*entity.SuspendedSale, error) {
	var (
		s     entity.SuspendedSale
		items []byte
	)
	if err := row.Scan(&s.ID, &s.CustomerName, &items, &s.Date, &s.Total); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &s.Items); err != nil {
		return nil, fmt.Errorf("unmarshal suspended items: %w", err)
	}
	return &s, nil
}
