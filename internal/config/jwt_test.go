package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	t.Setenv("COOKIE_SECURE", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours)
	assert.True(t, cfg.SecureCookies)
}

func TestNewJWTConfig_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := NewJWTConfig()
	assert.Error(t, err)
}

func TestNewJWTConfig_Expiration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Setenv("JWT_EXPIRATION_HOURS", "72")
	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 72, cfg.ExpirationHours)

	t.Setenv("JWT_EXPIRATION_HOURS", "0")
	_, err = NewJWTConfig()
	assert.Error(t, err)

	t.Setenv("JWT_EXPIRATION_HOURS", "abc")
	_, err = NewJWTConfig()
	assert.Error(t, err)
}

func TestNewJWTConfig_CookieSecure(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Setenv("COOKIE_SECURE", "false")
	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.False(t, cfg.SecureCookies)

	t.Setenv("COOKIE_SECURE", "maybe")
	_, err = NewJWTConfig()
	assert.Error(t, err)
}
