package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvDatabaseURL, EnvHost, EnvPort, EnvStaticDir, EnvProxyURL, EnvRegion, EnvLogLevel} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Empty(t, cfg.Database.URL, "no database URL fallback")
	assert.Equal(t, "IN", cfg.Catalog.Region)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
[server]
host = "127.0.0.1"
port = 9000

[database]
url = "sqlite:///tmp/vofo.db"
retry_interval = "30s"

[catalog]
proxy_url = "http://localhost:8080"
region = "US"
timeout = "3s"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, "sqlite:///tmp/vofo.db", cfg.Database.URL)
	assert.Equal(t, 30*time.Second, cfg.Database.RetryInterval)
	assert.Equal(t, "http://localhost:8080", cfg.Catalog.ProxyURL)
	assert.Equal(t, "US", cfg.Catalog.Region)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
[server]
port = 9000

[database]
url = "postgres://file/db"
`)
	t.Setenv(EnvPort, "10000")
	t.Setenv(EnvDatabaseURL, "postgres://env/db")
	t.Setenv(EnvProxyURL, "http://proxy:8080")
	t.Setenv(EnvRegion, "GB")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.Server.Port)
	assert.Equal(t, "postgres://env/db", cfg.Database.URL)
	assert.Equal(t, "http://proxy:8080", cfg.Catalog.ProxyURL)
	assert.Equal(t, "GB", cfg.Catalog.Region)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "non numeric port", env: map[string]string{EnvPort: "eighty"}},
		{name: "port out of range", env: map[string]string{EnvPort: "70000"}},
		{name: "negative retry", file: "[database]\nretry_interval = \"-1s\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			cfg, err := Load(path)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
