package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RATE_LIMIT", "")
	t.Setenv("RATE_WINDOW_SECONDS", "")
	t.Setenv("PORT", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
}

func TestLoadInvalidRateSettingsFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RATE_LIMIT", "garbage")
	t.Setenv("RATE_WINDOW_SECONDS", "0")

	cfg := Load()
	// Bad values must not produce a zero rate (every request rejected) or a
	// zero window (ticker panic in the limiter cleanup).
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
}

func TestLoadNegativeRateSettingsFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RATE_LIMIT", "-5")
	t.Setenv("RATE_WINDOW_SECONDS", "-1")

	cfg := Load()
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
}

func TestLoadCustomOrigins(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ALLOW_ORIGINS", "https://deo.example, https://app.deo.example")

	cfg := Load()
	assert.Equal(t, []string{"https://deo.example", "https://app.deo.example"}, cfg.AllowOrigins)
}
