package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "data/ornik8.db", cfg.Store.SQLitePath)
	assert.Equal(t, "random", cfg.Sequence.Fallback)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 4, cfg.Sync.Workers)
	assert.Empty(t, cfg.Remote.URL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"KV_DRIVER":         "memory",
		"REMOTE_URL":        "postgres://mirror.local/ornik8",
		"REMOTE_KEY":        "secret",
		"SEQUENCE_FALLBACK": "fail",
		"ENV":               "production",
		"BACKUP_SCHEDULE":   "@daily",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "postgres://mirror.local/ornik8", cfg.Remote.URL)
	assert.Equal(t, "secret", cfg.Remote.Key)
	assert.Equal(t, "fail", cfg.Sequence.Fallback)
	assert.Equal(t, "@daily", cfg.Backup.Schedule)
	assert.True(t, cfg.IsProduction())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"KV_DRIVER": "etcd",
	}))
	require.Error(t, err)
}
