package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
listen: ":9000"
ranked: true
log_level: debug
stores:
  credentials: postgres
  postgres_dsn: postgres://holdem@localhost/holdem
  sessions: redis
  redis_addr: localhost:6379
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Listen)
	require.True(t, cfg.Ranked)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, BackendPostgres, cfg.Stores.Credentials)
	require.Equal(t, BackendRedis, cfg.Stores.Sessions)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "ranked: true\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.True(t, cfg.Ranked)
	require.Equal(t, ":8080", cfg.Listen)
	require.Equal(t, BackendMemory, cfg.Stores.Credentials)
}

func TestValidateRejectsIncompleteBackends(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stores.Credentials = BackendPostgres
	require.ErrorContains(t, cfg.Validate(), "postgres_dsn")

	cfg = DefaultConfig()
	cfg.Stores.Sessions = BackendRedis
	require.ErrorContains(t, cfg.Validate(), "redis_addr")

	cfg = DefaultConfig()
	cfg.Stores.Credentials = "etcd"
	require.ErrorContains(t, cfg.Validate(), "unknown credential backend")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
