package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(env(map[string]string{
		"AUTH_JWT_SECRET": "s3cret",
		"STORE_DRIVER":    "memory",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, []string{"*"}, cfg.App.AllowOrigins)
	assert.Equal(t, time.UTC, cfg.App.DisplayTimezone)
	assert.Equal(t, 720*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Empty(t, cfg.Database.DSN)
}

func TestLoad_ReportsAllMissingKeys(t *testing.T) {
	_, err := load(env(map[string]string{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errMissingRequiredEnv))
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
	assert.Contains(t, err.Error(), "DATABASE_DSN")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	_, err := load(env(map[string]string{
		"AUTH_JWT_SECRET": "x",
		"STORE_DRIVER":    "mongo",
	}))
	assert.True(t, errors.Is(err, errInvalidEnv))
}

func TestLoad_ParsesOrigins(t *testing.T) {
	cfg, err := load(env(map[string]string{
		"AUTH_JWT_SECRET":    "x",
		"DATABASE_DSN":       "host=localhost",
		"CORS_ALLOW_ORIGINS": "http://localhost:3000, https://jobs.example.com,",
		"SESSION_TTL":        "1h",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000", "https://jobs.example.com"}, cfg.App.AllowOrigins)
	assert.Equal(t, time.Hour, cfg.Auth.SessionTTL)
}

func TestLoad_BadSessionTTL(t *testing.T) {
	_, err := load(env(map[string]string{
		"AUTH_JWT_SECRET": "x",
		"STORE_DRIVER":    "memory",
		"SESSION_TTL":     "forever",
	}))
	assert.True(t, errors.Is(err, errInvalidEnv))
}
