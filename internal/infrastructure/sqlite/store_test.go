package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.March, 2, 15, 4, 5, 0, time.UTC)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ventas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedProduct(t *testing.T, repo *ProductRepo, id string, stock int64) {
	t.Helper()
	require.NoError(t, repo.Upsert(context.Background(), &entity.Product{
		ID: id, Name: "Producto " + id, Category: "abarrotes",
		PriceRetail: dec("2.50"), PriceWholesale: dec("2.10"), Cost: dec("1.75"),
		Stock: stock, CreatedAt: now, UpdatedAt: now,
	}))
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestOpen_MigrationsSeAplicanUnaVez(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ventas.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	var applied int
	require.NoError(t, second.DB().QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestProductRepo_UpsertGetSoftDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(openTempStore(t).DB())
	seedProduct(t, repo, "p1", 5)

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(5), got.Stock)
	assert.True(t, got.PriceRetail.Equal(dec("2.5")))
	assert.True(t, got.Cost.Equal(dec("1.75")))
	assert.True(t, got.CreatedAt.Equal(now))

	require.NoError(t, repo.Delete(ctx, "p1"))
	got, err = repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, repo.Delete(ctx, "p1"), domain.ErrNotFound)

	// Volver a publicarlo lo reactiva.
	seedProduct(t, repo, "p1", 7)
	got, err = repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.Stock)
}

func TestProductRepo_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(openTempStore(t).DB())
	seedProduct(t, repo, "a", 1)
	seedProduct(t, repo, "b", 1)
	require.NoError(t, repo.Upsert(ctx, &entity.Product{ID: "c", Name: "Jabón", Category: "aseo", CreatedAt: now, UpdatedAt: now}))

	list, err := repo.List(ctx, repository.ProductFilter{Category: "abarrotes"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = repo.List(ctx, repository.ProductFilter{Search: "Jab"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].ID)

	list, err = repo.List(ctx, repository.ProductFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProductRepo_DecrementStockCondicional(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(openTempStore(t).DB())
	seedProduct(t, repo, "p1", 5)

	after, err := repo.DecrementStock(ctx, "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), after)

	_, err = repo.DecrementStock(ctx, "p1", 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.DecrementStock(ctx, "nope", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Stock)
}

func TestClientRepo_UpsertNoReescribeDeuda(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository(openTempStore(t).DB())
	c := &entity.Client{ID: "c1", Name: "Ana", Debt: dec("40"), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Upsert(ctx, c))

	c.Phone = "555-0101"
	c.Debt = decimal.Zero
	require.NoError(t, repo.Upsert(ctx, c))

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "555-0101", got.Phone)
	assert.True(t, got.Debt.Equal(dec("40")), got.Debt.String())
}

func TestClientRepo_AddReduceDebt(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository(openTempStore(t).DB())
	require.NoError(t, repo.Upsert(ctx, &entity.Client{ID: "c1", Name: "Ana", CreatedAt: now, UpdatedAt: now}))

	debt, err := repo.AddDebt(ctx, "c1", dec("100.25"))
	require.NoError(t, err)
	assert.True(t, debt.Equal(dec("100.25")))

	debt, err = repo.ReduceDebt(ctx, "c1", dec("30"))
	require.NoError(t, err)
	assert.True(t, debt.Equal(dec("70.25")))

	debt, err = repo.ReduceDebt(ctx, "c1", dec("500"))
	require.NoError(t, err)
	assert.True(t, debt.IsZero())

	_, err = repo.AddDebt(ctx, "otro", dec("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := repo.List(ctx, repository.ClientFilter{WithDebt: true})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSaleRepo_CreateGetListUpdate(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)
	db := store.DB()
	seedProduct(t, NewProductRepository(db), "p1", 10)
	seedProduct(t, NewProductRepository(db), "p2", 10)
	require.NoError(t, NewClientRepository(db).Upsert(ctx, &entity.Client{ID: "c1", Name: "Ana", CreatedAt: now, UpdatedAt: now}))

	repo := NewSaleRepository(db)
	retail := &entity.Sale{ID: "V-1", Date: now, Type: entity.SaleTypeRetail, SellerID: "s1", UpdatedAt: now}
	retail.SetItems([]entity.SaleItem{
		entity.NewSaleItem("p2", "Producto p2", 1, dec("2.50")),
		entity.NewSaleItem("p1", "Producto p1", 2, dec("2.50")),
	})
	require.NoError(t, repo.Create(ctx, retail))

	dispatch := &entity.Sale{ID: "V-2", Date: now.Add(time.Hour), Type: entity.SaleTypeDispatch,
		SellerID: "s2", ClientID: "c1", ClientName: "Ana", UpdatedAt: now}
	dispatch.SetItems([]entity.SaleItem{entity.NewSaleItem("p1", "Producto p1", 4, dec("2.10"))})
	require.NoError(t, repo.Create(ctx, dispatch))

	err := repo.Create(ctx, retail)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := repo.GetByID(ctx, "V-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "p2", got.Items[0].ProductID, "el orden de líneas se conserva")
	assert.True(t, got.TotalAmount.Equal(dec("7.50")))
	assert.Empty(t, got.ClientID)

	list, err := repo.List(ctx, repository.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "V-2", list[0].ID)
	assert.Len(t, list[0].Items, 1)

	from := now.Add(30 * time.Minute)
	list, err = repo.List(ctx, repository.SaleFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "V-2", list[0].ID)

	list, err = repo.List(ctx, repository.SaleFilter{ClientID: "c1", Type: entity.SaleTypeDispatch})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got.SetItems([]entity.SaleItem{entity.NewSaleItem("p1", "Producto p1", 1, dec("2.50"))})
	got.UpdatedAt = now.Add(2 * time.Hour)
	require.NoError(t, repo.UpdateItems(ctx, got))
	got, err = repo.GetByID(ctx, "V-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.TotalAmount.Equal(dec("2.50")))

	missing := &entity.Sale{ID: "nope"}
	assert.ErrorIs(t, repo.UpdateItems(ctx, missing), domain.ErrNotFound)
}

func TestSuspendedSaleRepo_TakeUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	repo := NewSuspendedSaleRepository(openTempStore(t).DB())
	items := []entity.SuspendedItem{{ProductID: "p1", ProductName: "Arroz", Quantity: 2, UnitPrice: dec("1.25")}}
	require.NoError(t, repo.Create(ctx, &entity.SuspendedSale{ID: "h1", CustomerName: "Mesa 1", Items: items, Date: now, Total: dec("2.50")}))
	require.NoError(t, repo.Create(ctx, &entity.SuspendedSale{ID: "h2", CustomerName: "Mesa 2", Items: items, Date: now.Add(time.Minute), Total: dec("2.50")}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "h2", list[0].ID)

	taken, err := repo.Take(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, taken.Items, 1)
	assert.True(t, taken.Items[0].UnitPrice.Equal(dec("1.25")))
	assert.Equal(t, "Mesa 1", taken.CustomerName)

	_, err = repo.Take(ctx, "h1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "h2"))
	assert.ErrorIs(t, repo.Delete(ctx, "h2"), domain.ErrNotFound)
}

func TestPaymentAndMovementRepos(t *testing.T) {
	ctx := context.Background()
	db := openTempStore(t).DB()
	seedProduct(t, NewProductRepository(db), "p1", 3)
	require.NoError(t, NewClientRepository(db).Upsert(ctx, &entity.Client{ID: "c1", Name: "Ana", CreatedAt: now, UpdatedAt: now}))

	payments := NewPaymentRepository(db)
	p := &entity.Payment{ID: "pay-1", ClientID: "c1", Amount: dec("10"), DebtAfter: dec("5"), SellerID: "s1", Date: now}
	require.NoError(t, payments.Create(ctx, p))
	assert.ErrorIs(t, payments.Create(ctx, p), domain.ErrDuplicate)

	got, err := payments.GetByID(ctx, "pay-1")
	require.NoError(t, err)
	assert.True(t, got.DebtAfter.Equal(dec("5")))

	list, err := payments.ListByClient(ctx, "c1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	movements := NewStockMovementRepository(db)
	require.NoError(t, movements.Create(ctx, &entity.StockMovement{
		ID: "m1", ProductID: "p1", Type: entity.MovementTypeOut, Quantity: -2, StockAfter: 1,
		Reference: "V-1", CreatedAt: now, CreatedBy: "s1",
	}))
	ms, err := movements.ListByProduct(ctx, "p1", 10, 0)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, int64(-2), ms[0].Quantity)
	assert.Equal(t, "V-1", ms[0].Reference)
}

func TestTxRunner_RollbackEnError(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)
	db := store.DB()
	seedProduct(t, NewProductRepository(db), "p1", 5)

	runner := NewTxRunner(db)
	err := runner.RunSale(ctx, func(
		_ repository.SaleRepository,
		products repository.ProductRepository,
		_ repository.ClientRepository,
		_ repository.StockMovementRepository,
	) error {
		if _, err := products.DecrementStock(ctx, "p1", 2); err != nil {
			return err
		}
		_, err := products.DecrementStock(ctx, "p1", 10)
		return err
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := NewProductRepository(db).GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Stock)
}

func TestMoneyConversion(t *testing.T) {
	assert.Equal(t, int64(1005), toCents(dec("10.05")))
	assert.Equal(t, int64(0), toCents(decimal.Zero))
	assert.True(t, fromCents(1005).Equal(dec("10.05")))
	assert.True(t, fromMillis(toMillis(now)).Equal(now))
}

func TestAjustesCondicionalesActualizanUpdatedAt(t *testing.T) {
	ctx := context.Background()
	db := openTempStore(t).DB()
	products := NewProductRepository(db)
	clients := NewClientRepository(db)
	seedProduct(t, products, "p1", 5)
	require.NoError(t, clients.Upsert(ctx, &entity.Client{ID: "c1", Name: "Ana", CreatedAt: now, UpdatedAt: now}))

	_, err := products.DecrementStock(ctx, "p1", 1)
	require.NoError(t, err)
	p, err := products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.UpdatedAt.After(now))
	assert.True(t, p.CreatedAt.Equal(now))

	_, err = clients.AddDebt(ctx, "c1", dec("5"))
	require.NoError(t, err)
	c, err := clients.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, c.UpdatedAt.After(now))

	require.NoError(t, clients.Upsert(ctx, &entity.Client{ID: "c2", Name: "Beto", CreatedAt: now, UpdatedAt: now}))
	_, err = clients.ReduceDebt(ctx, "c2", dec("1"))
	require.NoError(t, err)
	c, err = clients.GetByID(ctx, "c2")
	require.NoError(t, err)
	assert.True(t, c.UpdatedAt.After(now))

	require.NoError(t, products.Delete(ctx, "p1"))
	require.NoError(t, clients.Delete(ctx, "c1"))
	for _, table := range []string{"products", "clients"} {
		var updatedAt int64
		require.NoError(t, db.QueryRowContext(ctx, `SELECT updated_at FROM `+table+` WHERE deleted = 1`).Scan(&updatedAt))
		assert.Greater(t, updatedAt, toMillis(now), table)
	}
}
