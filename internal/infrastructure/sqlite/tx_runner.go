package sqlite

import (
	"context"
	"database/sql"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
// Dentro de fn solo deben usarse los repos recibidos: la tx retiene la única conexión.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner construye el runner con la base.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// RunSale abre una transacción con repos de ventas, catálogo, clientes y movimientos.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	return r.run(ctx, func(tx *sql.Tx) error {
		return fn(NewSaleRepository(tx), NewProductRepository(tx), NewClientRepository(tx), NewStockMovementRepository(tx))
	})
}

// RunPayment abre una transacción con repos de clientes y abonos.
func (r *TxRunner) RunPayment(ctx context.Context, fn func(
	clientRepo repository.ClientRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	return r.run(ctx, func(tx *sql.Tx) error {
		return fn(NewClientRepository(tx), NewPaymentRepository(tx))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeError("commit transaction", err)
	}
	return nil
}
