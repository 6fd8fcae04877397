package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.LoginRateLimit)
	assert.Equal(t, 300, cfg.LoginRateLimitWindow)
	assert.Equal(t, int64(3600), cfg.SessionLifetimeSeconds)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LOGIN_RATE_LIMIT", "10")
	t.Setenv("LOGIN_RATE_LIMIT_TIMEOUT", "600")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.Equal(t, 600, cfg.LoginRateLimitWindow)
}

func TestLoadRejectsZeroRateLimit(t *testing.T) {
	t.Setenv("LOGIN_RATE_LIMIT", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNegativeWindow(t *testing.T) {
	t.Setenv("LOGIN_RATE_LIMIT_TIMEOUT", "-1")

	_, err := Load()
	assert.Error(t, err)
}
