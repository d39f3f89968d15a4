package rules

import (
	"context"
	"fmt"
	"reflect"

	"github.com/assetforge/assetforge/engine/core"
	"github.com/assetforge/assetforge/engine/rule"
)

// asSlice reflects over any slice or array kind so collection rules work on
// both []any and typed slices.
func asSlice(name string, v any) (reflect.Value, *rule.ValidationError) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return reflect.Value{}, rule.Failf(name, v, "expected a collection, got %T", v)
	}
	return rv, nil
}

// NonEmptySlice validates that a collection has at least one element.
func NonEmptySlice() rule.Validator {
	const name = "non_empty_collection"
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		rv, ferr := asSlice(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if rv.Len() == 0 {
			return nil, rule.Failf(name, v, "collection must not be empty")
		}
		return v, nil
	})
}

// MaxItems validates that a collection has at most n elements.
func MaxItems(n int) rule.Validator {
	name := fmt.Sprintf("max_items(%d)", n)
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		rv, ferr := asSlice(name, v)
		if ferr != nil {
			return nil, ferr
		}
		if got := rv.Len(); got > n {
			return nil, rule.Failf(name, v, "%d items exceed maximum %d", got, n)
		}
		return v, nil
	})
}

// UniqueItems validates that no two elements share the same canonical form.
func UniqueItems() rule.Validator {
	const name = "unique_items"
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		rv, ferr := asSlice(name, v)
		if ferr != nil {
			return nil, ferr
		}
		seen := make(map[string]int, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			key := core.HashValue(rv.Index(i).Interface())
			if prev, dup := seen[key]; dup {
				return nil, rule.Failf(name, v, "items %d and %d are duplicates", prev, i)
			}
			seen[key] = i
		}
		return v, nil
	})
}

// Each applies a validator to every element in declared order; the first
// failing element's error propagates with its index.
func Each(elem rule.Validator) rule.Validator {
	name := fmt.Sprintf("each(%s)", elem.Name())
	return rule.NewValidator(name, func(ctx context.Context, rctx *rule.Context, v any) (any, error) {
		rv, ferr := asSlice(name, v)
		if ferr != nil {
			return nil, ferr
		}
		for i := 0; i < rv.Len(); i++ {
			if _, err := elem.Validate(ctx, rctx, rv.Index(i).Interface()); err != nil {
				return nil, rule.Failf(name, v, "item %d: %s", i, err.Error())
			}
		}
		return v, nil
	})
}
