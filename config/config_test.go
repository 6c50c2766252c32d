package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "memory://")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, ":4000", cfg.Addr())
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GeminiModel)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 20, cfg.MaxUploadMB)
	assert.Equal(t, "date", cfg.DefaultDateColumn)
	assert.Equal(t, "sales", cfg.DefaultSalesColumn)
	assert.Equal(t, "time", cfg.DefaultTimeColumn)
	assert.False(t, cfg.GeminiEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "memory://")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("DEFAULT_SALES_COLUMN", "amount")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.True(t, cfg.GeminiEnabled())
	assert.Equal(t, "amount", cfg.DefaultSalesColumn)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "memory://")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsHalfConfiguredAdmin(t *testing.T) {
	t.Setenv("DATABASE_URL", "memory://")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	_, err := Load()
	assert.Error(t, err)
}
