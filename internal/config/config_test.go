package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T, yaml string) {
	t.Helper()
	dir := t.TempDir()
	if yaml != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func setSecrets(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("API_KEY", "master")
}

func TestLoadConfigFromFile(t *testing.T) {
	chdirTemp(t, `
server:
  port: 9090
  environment: production
database:
  name: his
  auto_migrate: true
cache:
  ttl: 30s
`)
	setSecrets(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.IsProduction())
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.MaxAge)
	assert.Equal(t, "master", cfg.Secrets.MasterAPIKey)
	assert.Contains(t, cfg.Database.DSN(), "dbname=his")
}

func TestEnvironmentOverrides(t *testing.T) {
	chdirTemp(t, "")
	setSecrets(t)
	t.Setenv("HIS_SERVER_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/his?sslmode=disable")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db/his?sslmode=disable", cfg.Database.DSN())
}

func TestMissingOAuthCredentialsFail(t *testing.T) {
	chdirTemp(t, "database:\n  name: his\n")
	setSecrets(t)
	require.NoError(t, os.Unsetenv("GOOGLE_CLIENT_ID"))
	require.NoError(t, os.Unsetenv("GOOGLE_CLIENT_SECRET"))

	_, err := LoadConfig()
	assert.Error(t, err)
}
