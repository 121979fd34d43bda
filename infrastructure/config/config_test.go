package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, StoreDriverJournal, cfg.StoreDriver)
	assert.True(t, cfg.WatchJournal)
	assert.Equal(t, filepath.Join("data", "relational-trees.json"), filepath.Clean(cfg.JournalPath()))
	assert.Equal(t, filepath.Join("data", "actors.json"), filepath.Clean(cfg.ActorsPath()))
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9999")
	t.Setenv("STORE_DRIVER", StoreDriverSQLite)
	t.Setenv("WATCH_JOURNAL", "false")
	t.Setenv("DATA_DIR", "/var/lib/relatree")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ServerAddress)
	assert.Equal(t, StoreDriverSQLite, cfg.StoreDriver)
	assert.False(t, cfg.WatchJournal)
	assert.Equal(t, "/var/lib/relatree/relatree.db", cfg.SQLitePath())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relatree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_address: \":7070\"\nlog_level: debug\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ServerAddress)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateRequiresSecretInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
