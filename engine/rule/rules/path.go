package rules

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/assetforge/assetforge/engine/rule"
)

// CleanPath normalizes string paths with filepath.Clean. Non-string values
// pass through unchanged.
func CleanPath() rule.Normalizer {
	return rule.NewNormalizer("clean_path", func(_ context.Context, _ *rule.Context, v any) (any, error) {
		if s, ok := v.(string); ok {
			return filepath.Clean(s), nil
		}
		return v, nil
	})
}

// NoTraversal rejects paths that escape their root through ".." segments.
func NoTraversal() rule.Validator {
	const name = "no_traversal"
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		s, ferr := asString(name, v)
		if ferr != nil {
			return nil, ferr
		}
		cleaned := filepath.Clean(s)
		if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
			return nil, rule.Failf(name, v, "path %q escapes its root", s)
		}
		for _, seg := range strings.Split(cleaned, string(filepath.Separator)) {
			if seg == ".." {
				return nil, rule.Failf(name, v, "path %q contains a parent-directory segment", s)
			}
		}
		return v, nil
	})
}

// Absolute validates that a path is absolute.
func Absolute() rule.Validator {
	const name = "is_absolute"
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		s, ferr := asString(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if !filepath.IsAbs(s) {
			return nil, rule.Failf(name, v, "path %q is not absolute", s)
		}
		return v, nil
	})
}

// Relative validates that a path is relative.
func Relative() rule.Validator {
	const name = "is_relative"
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		s, ferr := asString(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if filepath.IsAbs(s) {
			return nil, rule.Failf(name, v, "path %q is not relative", s)
		}
		return v, nil
	})
}
