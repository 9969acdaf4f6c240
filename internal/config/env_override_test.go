package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("USERDIR_API_URL replaces base url", func(t *testing.T) {
		t.Setenv("USERDIR_API_URL", "http://localhost:8090")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://localhost:8090", cfg.API.BaseURL)
	})

	t.Run("USERDIR_REDIS_ADDR switches an unset driver to redis", func(t *testing.T) {
		t.Setenv("USERDIR_REDIS_ADDR", "localhost:6379")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
		assert.Equal(t, "redis", cfg.Cache.Driver)
	})

	t.Run("USERDIR_REDIS_ADDR keeps an explicit driver", func(t *testing.T) {
		t.Setenv("USERDIR_REDIS_ADDR", "localhost:6379")

		cfg := &Config{Cache: CacheConfig{Driver: "memory"}}
		cfg.applyEnvOverrides()

		assert.Equal(t, "memory", cfg.Cache.Driver)
	})

	t.Run("USERDIR_LOG_LEVEL and USERDIR_DEBUG", func(t *testing.T) {
		t.Setenv("USERDIR_LOG_LEVEL", "debug")
		t.Setenv("USERDIR_DEBUG", "true")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.True(t, cfg.Logging.DebugMode)
	})

	t.Run("unparseable USERDIR_DEBUG is ignored", func(t *testing.T) {
		t.Setenv("USERDIR_DEBUG", "sometimes")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.False(t, cfg.Logging.DebugMode)
	})
}
