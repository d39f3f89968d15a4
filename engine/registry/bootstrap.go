package registry

import (
	"time"

	"github.com/assetforge/assetforge/engine/core"
	"github.com/assetforge/assetforge/engine/rule"
	"github.com/assetforge/assetforge/engine/rule/rules"
)

// Namespaces used by the built-in rule set.
const (
	NamespaceString     = "STRING"
	NamespaceNumeric    = "NUMERIC"
	NamespaceTime       = "TIME"
	NamespacePath       = "PATH"
	NamespaceCollection = "COLLECTION"
	NamespaceExpr       = "EXPR"
	NamespaceStruct     = "STRUCT"
)

// Bootstrap returns a registry pre-populated with the built-in rule set.
func Bootstrap() (*Registry, error) {
	r := New()
	singletons := map[string]rule.Rule{
		"STRING.strip":            rules.Strip(),
		"STRING.lower":            rules.Lower(),
		"STRING.upper":            rules.Upper(),
		"STRING.non_empty":        rules.NonEmpty(),
		"STRING.no_control_chars": rules.NoControlChars(),
		"NUMERIC.is_positive":     rules.Positive(),
		"NUMERIC.non_negative":    rules.NonNegative(),
		"NUMERIC.is_integer":      rules.Integer(),
		"TIME.not_in_future":      rules.NotInFuture(nil),
		"PATH.clean":              rules.CleanPath(),
		"PATH.no_traversal":       rules.NoTraversal(),
		"PATH.is_absolute":        rules.Absolute(),
		"PATH.is_relative":        rules.Relative(),
		"COLLECTION.non_empty":    rules.NonEmptySlice(),
		"COLLECTION.unique":       rules.UniqueItems(),
		"STRUCT.tags":             rules.Struct(),
	}
	for path, rl := range singletons {
		if err := r.RegisterRule(path, rl); err != nil {
			return nil, err
		}
	}
	factories := map[string]Factory{
		"STRING.matches":       matchesFactory,
		"STRING.max_len":       maxLenFactory,
		"STRING.min_len":       minLenFactory,
		"NUMERIC.in_range":     inRangeFactory,
		"TIME.parse":           parseTimeFactory,
		"TIME.after":           afterFactory,
		"COLLECTION.max_items": maxItemsFactory,
		"EXPR.cel":             celFactory,
	}
	for path, f := range factories {
		if err := r.Register(path, f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func paramString(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", core.NewError(nil, core.ErrCodeInvalidRuleParams, map[string]any{
			"missing": key,
		})
	}
	s, ok := v.(string)
	if !ok {
		return "", core.NewError(nil, core.ErrCodeInvalidRuleParams, map[string]any{
			"param":    key,
			"expected": "string",
		})
	}
	return s, nil
}

func paramInt(params map[string]any, key string) (int, error) {
	v, ok := params[key]
	if !ok {
		return 0, core.NewError(nil, core.ErrCodeInvalidRuleParams, map[string]any{
			"missing": key,
		})
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, core.NewError(nil, core.ErrCodeInvalidRuleParams, map[string]any{
			"param":    key,
			"expected": "integer",
		})
	}
}

func paramFloat(params map[string]any, key string) (float64, error) {
	v, ok := params[key]
	if !ok {
		return 0, core.NewError(nil, core.ErrCodeInvalidRuleParams, map[string]any{
			"missing": key,
		})
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, core.NewError(nil, core.ErrCodeInvalidRuleParams, map[string]any{
			"param":    key,
			"expected": "number",
		})
	}
}

func matchesFactory(params map[string]any) (rule.Rule, error) {
	pattern, err := paramString(params, "pattern")
	if err != nil {
		return nil, err
	}
	return rules.Matches(pattern)
}

func maxLenFactory(params map[string]any) (rule.Rule, error) {
	n, err := paramInt(params, "max")
	if err != nil {
		return nil, err
	}
	return rules.MaxLen(n), nil
}

func minLenFactory(params map[string]any) (rule.Rule, error) {
	n, err := paramInt(params, "min")
	if err != nil {
		return nil, err
	}
	return rules.MinLen(n), nil
}

func inRangeFactory(params map[string]any) (rule.Rule, error) {
	lo, err := paramFloat(params, "min")
	if err != nil {
		return nil, err
	}
	hi, err := paramFloat(params, "max")
	if err != nil {
		return nil, err
	}
	return rules.InRange(lo, hi), nil
}

func parseTimeFactory(params map[string]any) (rule.Rule, error) {
	if _, ok := params["layout"]; !ok {
		return rules.ParseTime(), nil
	}
	layout, err := paramString(params, "layout")
	if err != nil {
		return nil, err
	}
	return rules.ParseTime(layout), nil
}

func afterFactory(params map[string]any) (rule.Rule, error) {
	bound, err := paramString(params, "bound")
	if err != nil {
		return nil, err
	}
	t, perr := time.Parse(time.RFC3339, bound)
	if perr != nil {
		return nil, core.NewError(perr, core.ErrCodeInvalidRuleParams, map[string]any{
			"param": "bound",
		})
	}
	return rules.After(t), nil
}

func maxItemsFactory(params map[string]any) (rule.Rule, error) {
	n, err := paramInt(params, "max")
	if err != nil {
		return nil, err
	}
	return rules.MaxItems(n), nil
}

func celFactory(params map[string]any) (rule.Rule, error) {
	name, err := paramString(params, "name")
	if err != nil {
		name = "cel_expr"
	}
	src, err := paramString(params, "expression")
	if err != nil {
		return nil, err
	}
	return rules.Expr(name, src)
}
