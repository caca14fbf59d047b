package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		DB:     config.DBConfig{Driver: config.DriverSQLite},
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "ventas.db")},
	}
	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, config.DriverSQLite, s.Driver)
	require.NoError(t, s.Ping(context.Background()))
	list, err := s.Products.List(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DB: config.DBConfig{Driver: "mysql"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql")
}
