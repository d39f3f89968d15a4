package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/assetforge/assetforge/engine/rule"
)

// ParseTime normalizes string timestamps into time.Time using the given
// layouts (RFC3339 when none are given). Values that are already time.Time
// pass through; a string matching no layout is fundamentally unusable for a
// timestamp asset and fails.
func ParseTime(layouts ...string) rule.Normalizer {
	if len(layouts) == 0 {
		layouts = []string{time.RFC3339}
	}
	return rule.NewNormalizer("parse_time", func(_ context.Context, _ *rule.Context, v any) (any, error) {
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			for _, layout := range layouts {
				if parsed, err := time.Parse(layout, t); err == nil {
					return parsed, nil
				}
			}
			return nil, rule.Failf("parse_time", v, "%q matches none of %d accepted layouts", t, len(layouts))
		default:
			return v, nil
		}
	})
}

// asTime coerces the pipeline value for time validators.
func asTime(name string, v any) (time.Time, *rule.ValidationError) {
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, rule.Failf(name, v, "expected a timestamp, got %T", v)
	}
	return t, nil
}

// NotInFuture validates that a timestamp is not ahead of the clock. A nil
// clock uses time.Now; tests inject a fixed clock.
func NotInFuture(clock func() time.Time) rule.Validator {
	if clock == nil {
		clock = time.Now
	}
	const name = "not_in_future"
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		t, ferr := asTime(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if now := clock(); t.After(now) {
			return nil, rule.Failf(name, v, "timestamp %s is in the future (now %s)",
				t.Format(time.RFC3339), now.Format(time.RFC3339))
		}
		return v, nil
	})
}

// After validates that a timestamp is strictly after the given bound.
func After(bound time.Time) rule.Validator {
	name := fmt.Sprintf("after(%s)", bound.Format(time.RFC3339))
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		t, ferr := asTime(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if !t.After(bound) {
			return nil, rule.Failf(name, v, "timestamp %s is not after %s",
				t.Format(time.RFC3339), bound.Format(time.RFC3339))
		}
		return v, nil
	})
}
