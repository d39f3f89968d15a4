package autoload

import (
	"fmt"
)

// DefaultExcludes contains patterns for common temporary/backup files that should be ignored
var DefaultExcludes = []string{
	"**/.#*",   // Emacs lock files
	"**/*~",    // Backup files
	"**/*.bak", // Backup files
	"**/*.swp", // Vim swap files
	"**/*.tmp", // Temporary files
	"**/._*",   // macOS resource forks
}

// Config controls manifest discovery and loading.
type Config struct {
	Enabled bool     `json:"enabled"           yaml:"enabled"           koanf:"enabled"`
	Strict  bool     `json:"strict"            yaml:"strict"            koanf:"strict"`
	Include []string `json:"include"           yaml:"include"           koanf:"include"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" koanf:"exclude"`
}

// NewConfig returns a disabled, strict config.
func NewConfig() *Config {
	return &Config{
		Enabled: false,
		Strict:  true,
		Include: []string{},
		Exclude: []string{},
	}
}

// Validate checks the pattern lists.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Include) == 0 {
		return fmt.Errorf("autoload include patterns are required when autoload is enabled")
	}
	for _, pattern := range c.Include {
		if pattern == "" {
			return fmt.Errorf("empty include pattern is not allowed")
		}
	}
	for _, pattern := range c.Exclude {
		if pattern == "" {
			return fmt.Errorf("empty exclude pattern is not allowed")
		}
	}
	return nil
}
