package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Should load built-in defaults", func(t *testing.T) {
		cfg, err := Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 1024, cfg.Cache.LRUCapacity)
		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, "assetforge", cfg.Tracing.ServiceName)
		assert.False(t, cfg.Tracing.Enabled)
	})

	t.Run("Should apply environment overrides", func(t *testing.T) {
		t.Setenv("ASSETFORGE_LOG_LEVEL", "debug")
		t.Setenv("ASSETFORGE_CACHE_LRU_CAPACITY", "64")
		t.Setenv("ASSETFORGE_TRACING_ENABLED", "true")
		cfg, err := Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 64, cfg.Cache.LRUCapacity)
		assert.True(t, cfg.Tracing.Enabled)
	})

	t.Run("Should parse duration overrides", func(t *testing.T) {
		t.Setenv("ASSETFORGE_CACHE_TTL", "90s")
		cfg, err := Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	})

	t.Run("Should reject invalid log levels", func(t *testing.T) {
		t.Setenv("ASSETFORGE_LOG_LEVEL", "verbose")
		_, err := Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("Should reject non-positive cache capacity", func(t *testing.T) {
		t.Setenv("ASSETFORGE_CACHE_LRU_CAPACITY", "0")
		_, err := Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("Should ignore unprefixed environment variables", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		cfg, err := Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Log.Level)
	})
}

func TestTransformEnvKey(t *testing.T) {
	t.Run("Should map section and field segments", func(t *testing.T) {
		assert.Equal(t, "log.level", transformEnvKey("LOG_LEVEL"))
		assert.Equal(t, "cache.lru_capacity", transformEnvKey("CACHE_LRU_CAPACITY"))
		assert.Equal(t, "tracing.pretty_print", transformEnvKey("TRACING_PRETTY_PRINT"))
	})

	t.Run("Should handle degenerate keys", func(t *testing.T) {
		assert.Equal(t, "", transformEnvKey("___"))
		assert.Equal(t, "log", transformEnvKey("LOG"))
	})
}

func TestFromContext(t *testing.T) {
	t.Run("Should return attached config", func(t *testing.T) {
		cfg := Default()
		cfg.Log.Level = "error"
		ctx := ContextWithConfig(context.Background(), cfg)
		assert.Equal(t, "error", FromContext(ctx).Log.Level)
	})

	t.Run("Should fall back to defaults when unattached", func(t *testing.T) {
		got := FromContext(context.Background())
		require.NotNil(t, got)
		assert.Equal(t, 1024, got.Cache.LRUCapacity)
	})
}
