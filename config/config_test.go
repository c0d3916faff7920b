package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, BackendMemory, cfg.Backend.Auth)
	assert.Equal(t, BackendMemory, cfg.Backend.Store)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiry)
	assert.Equal(t, "@every 1m", cfg.Session.CheckSpec)
	assert.False(t, cfg.UsesPostgres())
	assert.False(t, cfg.UsesRedis())
	assert.False(t, cfg.UsesFirebase())
}

func TestLoad_FromFile(t *testing.T) {
	path := writeEnv(t, `APP_PORT=9090
BACKEND_AUTH=selfhosted
BACKEND_STORE=Postgres
JWT_SECRET=s3cret
JWT_ACCESS_EXPIRY=30m
DB_USER=docapp
DB_PASSWORD=pw
DB_NAME=docapp
`)

	cfg, err := load(path)

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, BackendSelfHosted, cfg.Backend.Auth)
	assert.Equal(t, BackendPostgres, cfg.Backend.Store)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, "postgres://docapp:pw@localhost:5432/docapp?sslmode=disable", cfg.DB.URL())
	assert.True(t, cfg.UsesPostgres())
	assert.True(t, cfg.UsesRedis())
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	_, err := load(writeEnv(t, "BACKEND_STORE=cassandra\n"))

	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestLoad_SelfHostedNeedsSecret(t *testing.T) {
	_, err := load(writeEnv(t, "BACKEND_AUTH=selfhosted\n"))

	assert.Error(t, err)
}
