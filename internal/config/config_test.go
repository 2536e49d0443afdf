package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the duration of the test so .env files can supply it.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:7777", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/keyed.db", cfg.Database.Path)
	assert.Equal(t, "Authorization", cfg.Auth.Header)
	assert.Equal(t, int64(1), cfg.Auth.AdminID)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "keyed-backups", cfg.Backup.KeyPrefix)
	assert.Equal(t, 7, cfg.Backup.Keep)
	assert.Equal(t, "data/keyed.db", cfg.DataSource())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("KEYED_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("KEYED_DATABASE_DRIVER", "postgres")
	t.Setenv("KEYED_DATABASE_DSN", "postgres://keyed@localhost/keyed")
	t.Setenv("KEYED_AUTH_HEADER", "X-Api-Key")
	t.Setenv("KEYED_AUTH_ADMINID", "42")
	t.Setenv("KEYED_METRICS_ENABLED", "false")

	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "X-Api-Key", cfg.Auth.Header)
	assert.Equal(t, int64(42), cfg.Auth.AdminID)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "postgres://keyed@localhost/keyed", cfg.DataSource())
}

func TestLoad_DotEnvAndConfigFile(t *testing.T) {
	dir := t.TempDir()
	unsetEnv(t, "KEYED_BACKUP_BUCKET")
	unsetEnv(t, "KEYED_LOG_LEVEL")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("KEYED_BACKUP_BUCKET=snapshots\nKEYED_LOG_LEVEL=debug\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("backup:\n  keep: 3\n  keyprefix: nightly\n"), 0o600))

	cfg, err := load(dir)
	require.NoError(t, err)

	assert.Equal(t, "snapshots", cfg.Backup.Bucket)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Backup.Keep)
	assert.Equal(t, "nightly", cfg.Backup.KeyPrefix)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("blank header", func(t *testing.T) {
		t.Setenv("KEYED_AUTH_HEADER", "  ")
		_, err := load(t.TempDir())
		assert.ErrorContains(t, err, "auth header")
	})

	t.Run("malformed .env", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("KEYED-LOG-LEVEL=debug\n"), 0o600))
		_, err := load(dir)
		assert.ErrorContains(t, err, "load .env")
	})

	t.Run("admin id", func(t *testing.T) {
		t.Setenv("KEYED_AUTH_ADMINID", "0")
		_, err := load(t.TempDir())
		assert.ErrorContains(t, err, "admin id")
	})
}
