package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/erp")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/erp")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
	assert.Equal(t, 12*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, "https://api.resend.com", cfg.MailAPIURL)
}

func TestGetDurationAcceptsBareSeconds(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "30")
	assert.Equal(t, 30*time.Second, getDuration("HTTP_READ_TIMEOUT", time.Minute))

	t.Setenv("HTTP_READ_TIMEOUT", "45s")
	assert.Equal(t, 45*time.Second, getDuration("HTTP_READ_TIMEOUT", time.Minute))

	t.Setenv("HTTP_READ_TIMEOUT", "bogus")
	assert.Equal(t, time.Minute, getDuration("HTTP_READ_TIMEOUT", time.Minute))
}
