package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

// chdir stands in for testing.T.Chdir (Go 1.24+): it switches the working
// directory for the test and restores the previous one on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "stock.db", cfg.Store.Path)
	assert.Equal(t, "system", cfg.App.DefaultUser)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_PATH", ":memory:")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DEFAULT_USER", "almacen")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.Store.Path)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "almacen", cfg.App.DefaultUser)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_PostgresSinURL(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := config.Load()
	assert.Error(t, err, "postgres sin DATABASE_URL debe fallar")
}

func TestLoad_DriverDesconocido(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "indexeddb")

	_, err := config.Load()
	assert.Error(t, err)
}
