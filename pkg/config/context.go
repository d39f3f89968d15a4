package config

import (
	"context"
	"sync"
)

type ctxKey struct{}

// ConfigCtxKey stores the active *Config in a context.
var ConfigCtxKey = ctxKey{}

var (
	defaultConfig     *Config
	defaultConfigOnce sync.Once
)

// ContextWithConfig stores the configuration in the context.
func ContextWithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ConfigCtxKey, cfg)
}

// FromContext retrieves the configuration from the context. If none is
// attached it falls back to a lazily-loaded default so components always see
// a usable configuration.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(ConfigCtxKey).(*Config); ok && cfg != nil {
			return cfg
		}
	}
	return getDefault(ctx)
}

func getDefault(ctx context.Context) *Config {
	defaultConfigOnce.Do(func() {
		cfg, err := Load(ctx)
		if err != nil {
			cfg = Default()
		}
		defaultConfig = cfg
	})
	return defaultConfig
}
