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
	"github.com/shopspring/decimal"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository sobre SQLite.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el repositorio. Pasar db o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, name, business_name, phone, address, debt_cents, credit_limit_cents, created_at, updated_at`

// Upsert inserta con la deuda inicial o actualiza datos de contacto; la deuda no se reescribe.
func (r *ClientRepo) Upsert(ctx context.Context, c *entity.Client) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO clients (`+clientColumns+`, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			business_name = excluded.business_name,
			phone = excluded.phone,
			address = excluded.address,
			credit_limit_cents = excluded.credit_limit_cents,
			deleted = 0,
			updated_at = excluded.updated_at`,
		c.ID, c.Name, c.BusinessName, c.Phone, c.Address,
		toCents(c.Debt), toCents(c.CreditLimit), toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	if err != nil {
		return storeError("upsert client", err)
	}
	return nil
}

// GetByID obtiene un cliente activo; nil, nil si no existe.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ? AND deleted = 0`, id)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get client", err)
	}
	return c, nil
}

// List lista clientes activos por nombre.
func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	limit, offset := normalizePage(f.Limit, f.Offset)
	where := []string{"deleted = 0"}
	var args []any
	if f.Search != "" {
		where = append(where, "(name LIKE ? OR business_name LIKE ?)")
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}
	if f.WithDebt {
		where = append(where, "debt_cents > 0")
	}
	args = append(args, limit, offset)

	rows, err := r.q.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE `+
		strings.Join(where, " AND ")+` ORDER BY name, id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, storeError("list clients", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, storeError("scan client", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list clients", err)
	}
	return list, nil
}

// Delete marca el cliente como eliminado.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `UPDATE clients SET deleted = 1, updated_at = ? WHERE id = ? AND deleted = 0`,
		toMillis(time.Now()), id)
	if err != nil {
		return storeError("delete client", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AddDebt suma amount relativo al valor comprometido.
func (r *ClientRepo) AddDebt(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	return r.adjustDebt(ctx, "add debt", `debt_cents + ?`, id, amount)
}

// ReduceDebt resta amount con piso en cero.
func (r *ClientRepo) ReduceDebt(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	return r.adjustDebt(ctx, "reduce debt", `MAX(debt_cents - ?, 0)`, id, amount)
}

func (r *ClientRepo) adjustDebt(ctx context.Context, op, expr, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	var after int64
	err := r.q.QueryRowContext(ctx,
		`UPDATE clients SET debt_cents = `+expr+`, updated_at = ? WHERE id = ? AND deleted = 0 RETURNING debt_cents`,
		toCents(amount), toMillis(time.Now()), id).Scan(&after)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
		}
		return decimal.Zero, storeError(op, err)
	}
	return fromCents(after), nil
}

func scanClient(s rowScanner) (*entity.Client, error) {
	var (
		c                    entity.Client
		debt, creditLimit    int64
		createdAt, updatedAt int64
	)
	if err := s.Scan(&c.ID, &c.Name, &c.BusinessName, &c.Phone, &c.Address, &debt, &creditLimit, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.Debt = fromCents(debt)
	c.CreditLimit = fromCents(creditLimit)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return &c, nil
}
