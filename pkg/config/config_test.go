package config_test

import (
	"testing"

	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, config.InvoicePriceCurrent, cfg.Invoice.PriceMode)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.AMQP.Enabled())
	assert.False(t, cfg.DB.Migrate)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_MIGRATE", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("INVOICE_PRICE_MODE", "snapshot")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.DB.Migrate)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, config.InvoicePriceSnapshot, cfg.Invoice.PriceMode)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_SinSecretoFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/inv?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
