package rules

import (
	"context"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/assetforge/assetforge/engine/rule"
)

// Struct validates struct values against their go-playground `validate`
// tags. Model assets use it for record-shaped fields whose invariants live
// on the struct definition itself.
func Struct() rule.Validator {
	const name = "struct_tags"
	validate := validator.New()
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		rv := reflect.ValueOf(v)
		for rv.Kind() == reflect.Pointer {
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return nil, rule.Failf(name, v, "expected a struct, got %T", v)
		}
		if err := validate.Struct(v); err != nil {
			return nil, rule.Failf(name, v, "struct validation failed: %s", err.Error())
		}
		return v, nil
	})
}
