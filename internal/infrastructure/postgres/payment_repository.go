package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo bitácora de abonos (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, client_id, amount, debt_after, seller_id, date`

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `INSERT INTO payments (`+paymentColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.ClientID, p.Amount, p.DebtAfter, p.SellerID, p.Date)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("payment %s: %w", p.ID, domain.ErrDuplicate)
		}
		return storeError("insert payment", err)
	}
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	var p entity.Payment
	err := r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id).Scan(
		&p.ID, &p.ClientID, &p.Amount, &p.DebtAfter, &p.SellerID, &p.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get payment", err)
	}
	return &p, nil
}

func (r *PaymentRepo) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Payment, error) {
	limit, offset = normalizePage(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+paymentColumns+` FROM payments
		WHERE client_id = $1 ORDER BY date DESC, id LIMIT $2 OFFSET $3`, clientID, limit, offset)
	if err != nil {
		return nil, storeError("list payments", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Payment, error) {
		var p entity.Payment
		err := row.Scan(&p.ID, &p.ClientID, &p.Amount, &p.DebtAfter, &p.SellerID, &p.Date)
		return &p, err
	})
	if err != nil {
		return nil, storeError("list payments", err)
	}
	return list, nil
}
