// Package storage elige el adaptador de persistencia según DB_DRIVER y expone sus repositorios.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Ventas-api/pkg/config"
)

// Storage repositorios fuera de transacción más el runner transaccional.
type Storage struct {
	Driver    string
	Products  repository.ProductRepository
	Clients   repository.ClientRepository
	Sales     repository.SaleRepository
	Payments  repository.PaymentRepository
	Suspended repository.SuspendedSaleRepository
	Movements repository.StockMovementRepository
	Tx        sales.TxRunner
	ping      func(ctx context.Context) error
	close     func()
}

// Open conecta y aplica migraciones del driver configurado.
func Open(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones postgres: %w", err)
		}
		return &Storage{
			Driver:    config.DriverPostgres,
			Products:  postgres.NewProductRepository(pool),
			Clients:   postgres.NewClientRepository(pool),
			Sales:     postgres.NewSaleRepository(pool),
			Payments:  postgres.NewPaymentRepository(pool),
			Suspended: postgres.NewSuspendedSaleRepository(pool),
			Movements: postgres.NewStockMovementRepository(pool),
			Tx:        postgres.NewTxRunner(pool),
			ping:      pool.Ping,
			close:     pool.Close,
		}, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		db := store.DB()
		return &Storage{
			Driver:    config.DriverSQLite,
			Products:  sqlite.NewProductRepository(db),
			Clients:   sqlite.NewClientRepository(db),
			Sales:     sqlite.NewSaleRepository(db),
			Payments:  sqlite.NewPaymentRepository(db),
			Suspended: sqlite.NewSuspendedSaleRepository(db),
			Movements: sqlite.NewStockMovementRepository(db),
			Tx:        sqlite.NewTxRunner(db),
			ping:      store.Ping,
			close:     func() { _ = store.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("DB_DRIVER no soportado: %q", cfg.DB.Driver)
	}
}

// Ping verifica la conexión.
func (s *Storage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close libera el pool o el archivo.
func (s *Storage) Close() {
	s.close()
}
