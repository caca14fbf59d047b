package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo bitácora de abonos sobre SQLite.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el repositorio.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, client_id, amount_cents, debt_after_cents, seller_id, date`

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO payments (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.ClientID, toCents(p.Amount), toCents(p.DebtAfter), p.SellerID, toMillis(p.Date))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("payment %s: %w", p.ID, domain.ErrDuplicate)
		}
		return storeError("insert payment", err)
	}
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get payment", err)
	}
	return p, nil
}

func (r *PaymentRepo) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Payment, error) {
	limit, offset = normalizePage(limit, offset)
	rows, err := r.q.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments
		WHERE client_id = ? ORDER BY date DESC, id LIMIT ? OFFSET ?`, clientID, limit, offset)
	if err != nil {
		return nil, storeError("list payments", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, storeError("scan payment", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list payments", err)
	}
	return list, nil
}

func scanPayment(s rowScanner) (*entity.Payment, error) {
	var (
		p                 entity.Payment
		amount, debtAfter int64
		date              int64
	)
	if err := s.Scan(&p.ID, &p.ClientID, &amount, &debtAfter, &p.SellerID, &date); err != nil {
		return nil, err
	}
	p.Amount = fromCents(amount)
	p.DebtAfter = fromCents(debtAfter)
	p.Date = fromMillis(date)
	return &p, nil
}
