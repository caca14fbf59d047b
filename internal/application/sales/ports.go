package sales

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// TxRunner ejecuta callbacks dentro de una transacción de base de datos.
// Los repos recibidos están atados a la tx: cualquier error devuelto por fn hace rollback de todo.
type TxRunner interface {
	// RunSale agrupa libro de ventas, catálogo, cuentas de clientes y bitácora de stock.
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		clientRepo repository.ClientRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
	// RunPayment agrupa cuentas de clientes y bitácora de abonos.
	RunPayment(ctx context.Context, fn func(
		clientRepo repository.ClientRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// Clock fuente de tiempo (inyectable en pruebas).
type Clock interface {
	Now() time.Time
}

// IDGenerator genera identificadores resistentes a colisiones.
type IDGenerator interface {
	NewID() string
}

// Config límites del coordinador.
type Config struct {
	TxTimeout    time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
}

func (c Config) withDefaults() Config {
	if c.TxTimeout <= 0 {
		c.TxTimeout = 5 * time.Second
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.RetryBackoff < 0 {
		c.RetryBackoff = 0
	}
	return c
}
