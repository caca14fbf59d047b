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
	"github.com/shopspring/decimal"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, name, business_name, phone, address, debt, credit_limit, created_at, updated_at`

// Upsert inserta con la deuda inicial o actualiza datos de contacto; la deuda solo la mueve el coordinador.
func (r *ClientRepo) Upsert(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			business_name = EXCLUDED.business_name,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			credit_limit = EXCLUDED.credit_limit,
			deleted = FALSE,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.BusinessName, c.Phone, c.Address, c.Debt, c.CreditLimit, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return storeError("upsert client", err)
	}
	return nil
}

// GetByID obtiene un cliente activo por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	var c entity.Client
	err := r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1 AND NOT deleted`, id).Scan(
		&c.ID, &c.Name, &c.BusinessName, &c.Phone, &c.Address, &c.Debt, &c.CreditLimit, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get client", err)
	}
	return &c, nil
}

// List lista clientes activos.
func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	limit, offset := normalizePage(f.Limit, f.Offset)
	where := []string{"NOT deleted"}
	var args []any
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR business_name ILIKE $%d)", len(args), len(args)))
	}
	if f.WithDebt {
		where = append(where, "debt > 0")
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE %s ORDER BY name, id LIMIT $%d OFFSET $%d`,
		clientColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("list clients", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.BusinessName, &c.Phone, &c.Address, &c.Debt, &c.CreditLimit,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, storeError("scan client", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list clients", err)
	}
	return list, nil
}

// Delete marca el cliente como eliminado.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE clients SET deleted = TRUE, updated_at = now() WHERE id = $1 AND NOT deleted`, id)
	if err != nil {
		return storeError("delete client", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AddDebt suma amount relativo al valor comprometido (debt = debt + $2).
func (r *ClientRepo) AddDebt(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	return r.adjustDebt(ctx, "add debt", `debt + $2`, id, amount)
}

// ReduceDebt resta amount con piso en cero (GREATEST(debt - $2, 0)).
func (r *ClientRepo) ReduceDebt(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	return r.adjustDebt(ctx, "reduce debt", `GREATEST(debt - $2, 0)`, id, amount)
}

func (r *ClientRepo) adjustDebt(ctx context.Context, op, expr, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	var after decimal.Decimal
	err := r.q.QueryRow(ctx,
		`UPDATE clients SET debt = `+expr+`, updated_at = now() WHERE id = $1 AND NOT deleted RETURNING debt`,
		id, amount).Scan(&after)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
		}
		return decimal.Zero, storeError(op, err)
	}
	return after, nil
}
