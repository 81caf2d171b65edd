package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Load is guarded by sync.Once, so every override has to be in place before
// the first call. A single test keeps that ordering obvious.
func TestLoad(t *testing.T) {
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("APP_DEFAULT_WINDOW_DAYS", "14")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("REDIS_URL", "redis://10.0.0.5:6379/2")

	cfg := Load()

	// Overridden by the environment.
	assert.Equal(t, "9191", cfg.Server.Port)
	assert.Equal(t, 14, cfg.App.DefaultWindowDays)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis://10.0.0.5:6379/2", cfg.Cache.RedisURL)

	// Untouched defaults.
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, 15, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int64(32), cfg.App.MaxUploadMB)
	assert.Equal(t, "127.0.0.1", cfg.Cache.RedisHost)
	assert.Equal(t, "6379", cfg.Cache.RedisPort)
	assert.Equal(t, 300, cfg.Cache.ResultTTLSeconds)

	// Repeat calls hand back the same instance.
	assert.Same(t, cfg, Load())
}
