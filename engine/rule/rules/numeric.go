package rules

import (
	"context"
	"fmt"
	"math"

	"github.com/assetforge/assetforge/engine/rule"
)

// asFloat coerces the numeric kinds a pipeline value may arrive as. JSON
// decoding produces float64; manifests and Go callers produce ints.
func asFloat(name string, v any) (float64, *rule.ValidationError) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, rule.Failf(name, v, "expected a number, got %T", v)
	}
}

// Positive validates that a number is strictly greater than zero.
func Positive() rule.Validator {
	const name = "is_positive"
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		n, ferr := asFloat(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if n <= 0 {
			return nil, rule.Failf(name, v, "%v is not positive", v)
		}
		return v, nil
	})
}

// NonNegative validates that a number is zero or greater.
func NonNegative() rule.Validator {
	const name = "non_negative"
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		n, ferr := asFloat(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if n < 0 {
			return nil, rule.Failf(name, v, "%v is negative", v)
		}
		return v, nil
	})
}

// InRange validates that a number lies in the inclusive range [lo, hi].
func InRange(lo, hi float64) rule.Validator {
	name := fmt.Sprintf("in_range(%v,%v)", lo, hi)
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		n, ferr := asFloat(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if n < lo || n > hi {
			return nil, rule.Failf(name, v, "%v outside range [%v, %v]", v, lo, hi)
		}
		return v, nil
	})
}

// Integer validates that a number has no fractional part.
func Integer() rule.Validator {
	const name = "is_integer"
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		n, ferr := asFloat(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if n != math.Trunc(n) {
			return nil, rule.Failf(name, v, "%v is not an integer", v)
		}
		return v, nil
	})
}
