package rules

import (
	"context"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/assetforge/assetforge/engine/core"
	"github.com/assetforge/assetforge/engine/rule"
)

// Expr compiles a CEL expression over the single variable `value` into a
// validator. The expression must evaluate to a boolean; compile failures are
// configuration errors raised here, not per-value failures.
func Expr(name, src string) (rule.Validator, error) {
	env, err := cel.NewEnv(cel.Variable("value", cel.DynType))
	if err != nil {
		return nil, core.NewError(err, core.ErrCodeInvalidRuleParams, map[string]any{
			"rule": name,
		})
	}
	ast, iss := env.Compile(src)
	if iss != nil && iss.Err() != nil {
		return nil, core.NewError(iss.Err(), core.ErrCodeInvalidRuleParams, map[string]any{
			"rule":       name,
			"expression": src,
		})
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, core.NewError(err, core.ErrCodeInvalidRuleParams, map[string]any{
			"rule":       name,
			"expression": src,
		})
	}
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		out, _, err := prg.Eval(map[string]any{"value": v})
		if err != nil {
			return nil, rule.Failf(name, v, "expression %q failed: %s", src, err.Error())
		}
		if out != types.True {
			return nil, rule.Failf(name, v, "expression %q not satisfied", src)
		}
		return v, nil
	}), nil
}
