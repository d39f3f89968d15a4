// Package rules provides the built-in rule factories registered under the
// engine's dotted-path namespaces (STRING.*, NUMERIC.*, TIME.*, PATH.*,
// COLLECTION.*, EXPR.*, STRUCT.*).
package rules

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/assetforge/assetforge/engine/core"
	"github.com/assetforge/assetforge/engine/rule"
)

// asString coerces the pipeline value for string validators. Non-string
// input is a validation failure, not a panic.
func asString(name string, v any) (string, *rule.ValidationError) {
	s, ok := v.(string)
	if !ok {
		return "", rule.Failf(name, v, "expected a string, got %T", v)
	}
	return s, nil
}

// Strip trims leading and trailing whitespace. Non-string values pass
// through unchanged: the transform simply does not apply to them.
func Strip() rule.Normalizer {
	return rule.NewNormalizer("strip", func(_ context.Context, _ *rule.Context, v any) (any, error) {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s), nil
		}
		return v, nil
	})
}

// Lower lowercases string values; everything else passes through.
func Lower() rule.Normalizer {
	return rule.NewNormalizer("lower", func(_ context.Context, _ *rule.Context, v any) (any, error) {
		if s, ok := v.(string); ok {
			return strings.ToLower(s), nil
		}
		return v, nil
	})
}

// Upper uppercases string values; everything else passes through.
func Upper() rule.Normalizer {
	return rule.NewNormalizer("upper", func(_ context.Context, _ *rule.Context, v any) (any, error) {
		if s, ok := v.(string); ok {
			return strings.ToUpper(s), nil
		}
		return v, nil
	})
}

// Matches validates strings against a regular expression. An invalid pattern
// is a configuration error raised at construction time.
func Matches(pattern string) (rule.Validator, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, core.NewError(err, core.ErrCodeInvalidRuleParams, map[string]any{
			"rule":    "matches",
			"pattern": pattern,
		})
	}
	name := fmt.Sprintf("matches(%s)", pattern)
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		s, ferr := asString(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if !re.MatchString(s) {
			return nil, rule.Failf(name, v, "%q does not match pattern %s", s, pattern)
		}
		return v, nil
	}), nil
}

// MaxLen validates that a string has at most n runes. The failure message
// reports both the actual and the maximum length.
func MaxLen(n int) rule.Validator {
	name := fmt.Sprintf("max_len(%d)", n)
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		s, ferr := asString(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if got := utf8.RuneCountInString(s); got > n {
			return nil, rule.Failf(name, v, "length %d exceeds maximum %d", got, n)
		}
		return v, nil
	})
}

// MinLen validates that a string has at least n runes.
func MinLen(n int) rule.Validator {
	name := fmt.Sprintf("min_len(%d)", n)
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		s, ferr := asString(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if got := utf8.RuneCountInString(s); got < n {
			return nil, rule.Failf(name, v, "length %d below minimum %d", got, n)
		}
		return v, nil
	})
}

// NonEmpty validates that a string is not empty after trimming.
func NonEmpty() rule.Validator {
	const name = "non_empty"
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		s, ferr := asString(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if strings.TrimSpace(s) == "" {
			return nil, rule.Failf(name, v, "value must not be empty")
		}
		return v, nil
	})
}

// NoControlChars rejects strings containing control characters, which tend to
// corrupt log lines and cache keys.
func NoControlChars() rule.Validator {
	const name = "no_control_chars"
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		s, ferr := asString(name, v)
		if ferr != nil {
			return nil, ferr
		}
		for _, r := range s {
			if unicode.IsControl(r) {
				return nil, rule.Failf(name, v, "control character %q not allowed", r)
			}
		}
		return v, nil
	})
}
