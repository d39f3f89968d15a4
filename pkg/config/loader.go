package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces the environment variables the loader reads.
const EnvPrefix = "ASSETFORGE_"

// Service loads and validates configuration.
type Service struct {
	koanf     *koanf.Koanf
	validator *validator.Validate
}

// NewService creates a configuration service with validation support.
func NewService() *Service {
	return &Service{
		koanf:     koanf.New("."),
		validator: validator.New(),
	}
}

// Load merges struct defaults with environment overrides and validates the
// result.
func (s *Service) Load(_ context.Context) (*Config, error) {
	if err := s.koanf.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := s.koanf.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key string, value string) (string, any) {
			return transformEnvKey(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	var cfg Config
	if err := s.koanf.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := s.validator.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Load builds a one-shot service and loads through it.
func Load(ctx context.Context) (*Config, error) {
	return NewService().Load(ctx)
}

// transformEnvKey converts environment variable names to koanf paths.
// For example: CACHE_LRU_CAPACITY -> cache.lru_capacity
func transformEnvKey(s string) string {
	s = strings.ToLower(s)
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_'
	})
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}
	// The first segment is the section; the rest stay one field name.
	return parts[0] + "." + strings.Join(parts[1:], "_")
}
