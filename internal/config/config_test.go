package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MISTRAL_API_KEY", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.AITimeout)
	assert.Equal(t, 3, cfg.AIMaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.AIBackoff)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, "mistral-large-latest", cfg.MistralModel)
	assert.Equal(t, time.Minute, cfg.RequestTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("AI_BACKOFF", "1s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, time.Second, cfg.AIBackoff)
}

func TestRequireJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.JWTSecret)
	assert.ErrorIs(t, cfg.RequireJWTSecret(), ErrMissingJWTSecret)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.NoError(t, cfg.RequireJWTSecret())
}
