package suspension_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/suspension"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Ventas-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("hold-%d", g.n)
}

func newManager(t *testing.T) (*suspension.Manager, *sqlite.ProductRepo) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "ventas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	db := store.DB()
	clock := &stepClock{t: time.Date(2026, time.May, 1, 8, 0, 0, 0, time.UTC)}
	m := suspension.NewManager(sqlite.NewSuspendedSaleRepository(db), clock, &seqIDs{}, logger.Nop(), time.Second)
	return m, sqlite.NewProductRepository(db)
}

func cart() []entity.SuspendedItem {
	return []entity.SuspendedItem{
		{ProductID: "arroz", ProductName: "Arroz 1kg", Quantity: 2, UnitPrice: decimal.RequireFromString("2.50")},
		{ProductID: "sal", ProductName: "Sal", Quantity: 1, UnitPrice: decimal.RequireFromString("0.90")},
	}
}

func TestHoldResume(t *testing.T) {
	m, products := newManager(t)
	ctx := context.Background()
	require.NoError(t, products.Upsert(ctx, &entity.Product{ID: "arroz", Name: "Arroz 1kg", Stock: 4}))

	held, err := m.Hold(ctx, suspension.HoldInput{CustomerName: "  Mesa 3 ", Items: cart()})
	require.NoError(t, err)
	assert.Equal(t, "hold-1", held.ID)
	assert.Equal(t, "Mesa 3", held.CustomerName)
	assert.True(t, held.Total.Equal(decimal.RequireFromString("5.90")), held.Total.String())

	// Suspender no toca el stock.
	p, err := products.GetByID(ctx, "arroz")
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.Stock)

	items, err := m.Resume(ctx, held.ID)
	require.NoError(t, err)
	assert.Equal(t, cart()[0].ProductID, items[0].ProductID)
	assert.Equal(t, int64(2), items[0].Quantity)

	_, err = m.Resume(ctx, held.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := m.ListHeld(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHold_TotalExplicito(t *testing.T) {
	m, _ := newManager(t)
	held, err := m.Hold(context.Background(), suspension.HoldInput{CustomerName: "Mesa 1", Items: cart(), Total: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.True(t, held.Total.Equal(decimal.NewFromInt(5)))
}

func TestHold_Validacion(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	_, err := m.Hold(ctx, suspension.HoldInput{CustomerName: "", Items: cart()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = m.Hold(ctx, suspension.HoldInput{CustomerName: "Mesa 1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	bad := cart()
	bad[1].Quantity = 0
	_, err = m.Hold(ctx, suspension.HoldInput{CustomerName: "Mesa 1", Items: bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = m.Hold(ctx, suspension.HoldInput{CustomerName: "Mesa 1", Items: cart(), Total: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := m.ListHeld(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHold_RechazaMasDeDosDecimales(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	items := []entity.SuspendedItem{
		{ProductID: "arroz", ProductName: "Arroz 1kg", Quantity: 3, UnitPrice: decimal.RequireFromString("1.005")},
	}

	_, err := m.Hold(ctx, suspension.HoldInput{CustomerName: "Mesa 2", Items: items, Total: decimal.RequireFromString("15.005")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	fields := make([]string, 0, len(ve.Details))
	for _, d := range ve.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"items[0].unit_price", "total"}, fields)

	list, err := m.ListHeld(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// El total guardado es el mismo que devuelve Hold.
func TestHold_TotalSeConservaAlListar(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	held, err := m.Hold(ctx, suspension.HoldInput{CustomerName: "Mesa 4", Items: cart()})
	require.NoError(t, err)

	list, err := m.ListHeld(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Total.Equal(held.Total), list[0].Total.String())
	assert.True(t, list[0].Total.Equal(entity.SumSuspended(list[0].Items)))
}

func TestListHeldYDiscard(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	first, err := m.Hold(ctx, suspension.HoldInput{CustomerName: "Mesa 1", Items: cart()})
	require.NoError(t, err)
	second, err := m.Hold(ctx, suspension.HoldInput{CustomerName: "Mesa 2", Items: cart()})
	require.NoError(t, err)

	list, err := m.ListHeld(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	require.NoError(t, m.Discard(ctx, first.ID))
	assert.ErrorIs(t, m.Discard(ctx, first.ID), domain.ErrNotFound)
	_, err = m.Resume(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResume_ConcurrenteSoloUnoGana(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	held, err := m.Hold(ctx, suspension.HoldInput{CustomerName: "Mesa 1", Items: cart()})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = m.Resume(ctx, held.ID)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, domain.ErrNotFound)
		}
	}
	assert.Equal(t, 1, wins)
}
