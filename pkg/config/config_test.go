package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "SERVER_NAME", "STATIC_DIR", "STATIC_SERVE_ASSETS",
		"DEBUG", "LOG_LEVEL", "LOG_FORMAT", "RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST", "RATE_LIMIT_TRUST_PROXY", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"SERVER_IDLE_TIMEOUT", "SHUTDOWN_TIMEOUT", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5000", cfg.Addr())
	assert.Equal(t, "Hello from Flask!", cfg.GreetingMessage())
	assert.Equal(t, "../frontend/build", cfg.Static.Dir)
	assert.False(t, cfg.Static.ServeAssets)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.RateLimit.TrustProxy)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:5000", "http://127.0.0.1:5000"}, cfg.Security.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("SERVER_NAME", "Go")
	t.Setenv("STATIC_DIR", "/srv/www")
	t.Setenv("DEBUG", "true")
	t.Setenv("RATE_LIMIT_ENABLED", "1")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_TRUST_PROXY", "true")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "Hello from Go!", cfg.GreetingMessage())
	assert.Equal(t, "/srv/www", cfg.Static.Dir)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "debug", cfg.Log.Level, "debug mode lowers the default log level")
	assert.True(t, cfg.RateLimit.Enabled)
	assert.InDelta(t, 2.5, cfg.RateLimit.RPS, 0.0001)
	assert.True(t, cfg.RateLimit.TrustProxy)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bool", key: "DEBUG", value: "maybe"},
		{name: "duration", key: "SHUTDOWN_TIMEOUT", value: "soon"},
		{name: "port", key: "SERVER_PORT", value: "http"},
		{name: "port range", key: "SERVER_PORT", value: "70000"},
		{name: "burst", key: "RATE_LIMIT_BURST", value: "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidateRateLimit(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_RPS")
}
