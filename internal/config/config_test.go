package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("API_TIMEOUT", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()
	assert.Equal(t, "http://localhost:3000/api", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.lineboost.test/api")
	t.Setenv("API_TIMEOUT", "15")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test,,")
	t.Setenv("TRACKING_ENABLED", "false")
	t.Setenv("PUBLIC_BASE_URL", "https://shop.lineboost.test/")

	cfg := Load()
	assert.Equal(t, "https://api.lineboost.test/api", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins)
	assert.False(t, cfg.TrackingEnabled)
	assert.Equal(t, "https://shop.lineboost.test", cfg.PublicBaseURL)
}

func TestGetDuration_Invalid(t *testing.T) {
	t.Setenv("X_DURATION", "soon")
	assert.Equal(t, time.Minute, getDuration("X_DURATION", time.Minute))
}
