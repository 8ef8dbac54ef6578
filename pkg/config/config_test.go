package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWith("", env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":3001", cfg.Addr)
	assert.Equal(t, "db.json", cfg.DBPath)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":8080"
db_path: /var/lib/storefront/db.json
redis_addr: localhost:6379
session_ttl: 2h
reset_token_ttl: 5m
log_level: debug
`), 0o644))

	cfg, err := LoadWith(path, env(map[string]string{
		"PORT":        "9000",
		"SESSION_TTL": "30m",
		"STATIC_DIR":  "/srv/www",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "/var/lib/storefront/db.json", cfg.DBPath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/srv/www", cfg.StaticDir)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadWith(filepath.Join(t.TempDir(), "nope.yaml"), env(nil))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("addr: [unclosed"), 0o644))
		_, err := LoadWith(path, env(nil))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := LoadWith("", env(map[string]string{"RESET_TOKEN_TTL": "soon"}))
		assert.ErrorContains(t, err, "RESET_TOKEN_TTL")
	})

	t.Run("half tls", func(t *testing.T) {
		_, err := LoadWith("", env(map[string]string{"TLS_CERT": "server.crt"}))
		assert.Error(t, err)
	})

	t.Run("no persistence", func(t *testing.T) {
		_, err := LoadWith("", env(map[string]string{"DB_PATH": ""}))
		assert.Error(t, err)
	})
}
