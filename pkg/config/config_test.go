package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.Sales.TxTimeout)
	assert.Equal(t, 3, cfg.Sales.MaxAttempts)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/caja.db")
	t.Setenv("SALES_TX_TIMEOUT", "2s")
	t.Setenv("SALES_RETRY_BACKOFF", "10")
	t.Setenv("SALES_MAX_ATTEMPTS", "5")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/caja.db", cfg.SQLite.Path)
	assert.Equal(t, 2*time.Second, cfg.Sales.TxTimeout)
	assert.Equal(t, 10*time.Millisecond, cfg.Sales.RetryBackoff)
	assert.Equal(t, 5, cfg.Sales.MaxAttempts)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestValidate_AcumulaErrores(t *testing.T) {
	cfg := &Config{
		DB:    DBConfig{Driver: DriverPostgres, MaxConns: 0},
		HTTP:  HTTPConfig{Port: 8080},
		Sales: SalesConfig{TxTimeout: 0, MaxAttempts: 0},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_CONNS")
	assert.Contains(t, err.Error(), "SALES_TX_TIMEOUT")
	assert.Contains(t, err.Error(), "SALES_MAX_ATTEMPTS")
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "caja", Password: "p@ss:w", DBName: "ventas", SSLMode: "disable"}
	assert.Equal(t, "postgres://caja:p%40ss%3Aw@db:5432/ventas?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
