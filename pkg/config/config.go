// Package config loads engine configuration from struct defaults and
// ASSETFORGE_-prefixed environment variables.
package config

import (
	"time"
)

// Config is the full engine configuration.
type Config struct {
	Log     LogConfig     `koanf:"log"     validate:"required"`
	Cache   CacheConfig   `koanf:"cache"   validate:"required"`
	Tracing TracingConfig `koanf:"tracing"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error" env:"LOG_LEVEL"`
	JSON  bool   `koanf:"json"                                         env:"LOG_JSON"`
}

// CacheConfig sizes the shared validation caches.
type CacheConfig struct {
	LRUCapacity     int           `koanf:"lru_capacity"     validate:"min=1" env:"CACHE_LRU_CAPACITY"`
	TTL             time.Duration `koanf:"ttl"              validate:"min=1" env:"CACHE_TTL"`
	CleanupInterval time.Duration `koanf:"cleanup_interval" validate:"min=1" env:"CACHE_CLEANUP_INTERVAL"`
}

// TracingConfig controls span export for asset processing.
type TracingConfig struct {
	Enabled     bool   `koanf:"enabled"      env:"TRACING_ENABLED"`
	ServiceName string `koanf:"service_name" validate:"required" env:"TRACING_SERVICE_NAME"`
	PrettyPrint bool   `koanf:"pretty_print" env:"TRACING_PRETTY_PRINT"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
		Cache: CacheConfig{
			LRUCapacity:     1024,
			TTL:             10 * time.Minute,
			CleanupInterval: 30 * time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "assetforge",
			PrettyPrint: false,
		},
	}
}
