package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_MAX_CONNS", "50")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 50, cfg.DB.MaxConns)
}

func TestGetEnvAsIntIgnoresGarbage(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := Load()
	assert.Equal(t, 10, cfg.DB.MaxConns)
}

func TestValidate(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/portfolio")
	t.Setenv("JWT_SECRET", "s3cret")
	cfg := Load()
	require.NoError(t, cfg.Validate())

	t.Setenv("JWT_SECRET", "")
	cfg = Load()
	assert.Error(t, cfg.Validate())

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DSN", "")
	cfg = Load()
	assert.Error(t, cfg.Validate())
}
