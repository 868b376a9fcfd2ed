package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "STORE_DRIVER", "DATA_DIR", "SQLITE_PATH", "NOTIFY_TTL"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "json", cfg.Store.Driver)
	assert.Equal(t, "data", cfg.Store.DataDir)
	assert.Equal(t, "agrotec.db", cfg.Store.SQLitePath)
	assert.Equal(t, 3*time.Second, cfg.Notify.TTL)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "mercado.db")
	t.Setenv("NOTIFY_TTL", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "mercado.db", cfg.Store.SQLitePath)
	assert.Equal(t, 5*time.Second, cfg.Notify.TTL)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTIFY_TTL", "pronto")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Notify.TTL)
}
