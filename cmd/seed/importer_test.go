package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestCSVRecords_Windows1252(t *testing.T) {
	raw, err := charmap.Windows1252.NewEncoder().Bytes([]byte("id;name;category;price_retail\nazucar;Azúcar morena;endulzantes;3,20\n"))
	require.NoError(t, err)

	records, err := csvRecords(bytes.NewReader(raw), "windows-1252", ';')
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Azúcar morena", records[0]["name"])
	assert.Equal(t, "3,20", records[0]["price_retail"])
}

func TestCSVRecords_CodificacionDesconocida(t *testing.T) {
	_, err := csvRecords(bytes.NewReader(nil), "ebcdic", ',')
	require.Error(t, err)
}

func TestParseMoney(t *testing.T) {
	for in, want := range map[string]string{"": "0", "3,20": "3.2", "1234.50": "1234.5"} {
		got, err := parseMoney(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}
	_, err := parseMoney("abc")
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "ventas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	db := store.DB()
	ctx := context.Background()

	products := usecase.NewProductUseCase(sqlite.NewProductRepository(db), sqlite.NewStockMovementRepository(db))
	records, err := csvRecords(bytes.NewBufferString(
		"id,name,category,price_retail,price_wholesale,cost,stock\n"+
			"arroz,Arroz 1kg,granos,2.50,2.10,1.80,10\n"+
			"sal,Sal,condimentos,0.90,0.75,0.50,5\n"), "utf-8", ',')
	require.NoError(t, err)
	n, err := importProducts(ctx, products, records)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := products.GetByID(ctx, "arroz")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Stock)

	clients := usecase.NewClientUseCase(sqlite.NewClientRepository(db))
	records, err = csvRecords(bytes.NewBufferString(
		"id,name,business_name,phone,address,debt,credit_limit\n"+
			"c1,Ana,Tienda La Esquina,300,Calle 1,12.5,100\n"+
			"c2,,,,,abc,\n"), "utf-8", ',')
	require.NoError(t, err)
	n, err = importClients(ctx, clients, records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 3")
	assert.Equal(t, 1, n)
}
