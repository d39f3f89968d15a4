package rule

import (
	"context"
	"strings"

	"github.com/assetforge/assetforge/engine/core"
)

// -----------------------------------------------------------------------------
// Composite combinators
// -----------------------------------------------------------------------------

// Op is the combination policy of a composite rule.
type Op int

const (
	OpAnd Op = iota + 1
	OpOr
	OpNot
)

func (o Op) String() string {
	switch o {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	default:
		return "unknown"
	}
}

// Composite is a Validator built from an ordered sequence of sub-validators
// and a combination policy. Sub-rules of one invocation never run
// concurrently with each other, preserving ordering and short-circuiting.
type Composite struct {
	name    string
	op      Op
	message string
	subs    []Validator
}

func (c *Composite) Name() string { return c.name }
func (c *Composite) Kind() Kind   { return KindValidator }
func (c *Composite) Op() Op       { return c.op }

// Subs returns the ordered sub-validators.
func (c *Composite) Subs() []Validator {
	out := make([]Validator, len(c.subs))
	copy(out, c.subs)
	return out
}

// asValidators rejects any sub-rule that is not a Validator. Composing a
// Normalizer into a validation-only composite is a configuration error raised
// at construction time, never deferred to validation time.
func asValidators(name string, subs []Rule) ([]Validator, error) {
	vs := make([]Validator, 0, len(subs))
	for _, s := range subs {
		v, ok := s.(Validator)
		if !ok || s.Kind() != KindValidator {
			return nil, core.NewError(nil, core.ErrCodeNormalizerInComposite, map[string]any{
				"composite": name,
				"sub_rule":  s.Name(),
				"kind":      s.Kind().String(),
			})
		}
		vs = append(vs, v)
	}
	return vs, nil
}

// And combines sub-rules so that all must pass, strictly in order. The first
// failure aborts the run and its error propagates unchanged.
func And(name string, subs ...Rule) (*Composite, error) {
	vs, err := asValidators(name, subs)
	if err != nil {
		return nil, err
	}
	return &Composite{name: name, op: OpAnd, subs: vs}, nil
}

// Or combines sub-rules so that the first success short-circuits. If every
// sub-rule fails, one aggregated error lists every branch's failure reason,
// prefixed by the optional message template.
func Or(name, message string, subs ...Rule) (*Composite, error) {
	vs, err := asValidators(name, subs)
	if err != nil {
		return nil, err
	}
	return &Composite{name: name, op: OpOr, message: message, subs: vs}, nil
}

// Not wraps exactly one sub-rule and succeeds iff it fails. When the sub-rule
// succeeds, Not fails with the given unexpected-success message.
func Not(name, message string, sub Rule) (*Composite, error) {
	vs, err := asValidators(name, []Rule{sub})
	if err != nil {
		return nil, err
	}
	if message == "" {
		message = "unexpected success of " + sub.Name()
	}
	return &Composite{name: name, op: OpNot, message: message, subs: vs}, nil
}

// Validate runs the composite policy over the sub-validators. The value is
// never altered; on success the original value is returned.
func (c *Composite) Validate(ctx context.Context, rctx *Context, v any) (any, error) {
	switch c.op {
	case OpAnd:
		return c.validateAnd(ctx, rctx, v)
	case OpOr:
		return c.validateOr(ctx, rctx, v)
	case OpNot:
		return c.validateNot(ctx, rctx, v)
	default:
		return nil, Failf(c.name, v, "composite has no combination policy")
	}
}

func (c *Composite) validateAnd(ctx context.Context, rctx *Context, v any) (any, error) {
	for _, sub := range c.subs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := sub.Validate(ctx, rctx, v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (c *Composite) validateOr(ctx context.Context, rctx *Context, v any) (any, error) {
	reasons := make([]string, 0, len(c.subs))
	for _, sub := range c.subs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, err := sub.Validate(ctx, rctx, v)
		if err == nil {
			return v, nil
		}
		reasons = append(reasons, err.Error())
	}
	msg := "no alternative matched: " + strings.Join(reasons, "; ")
	if c.message != "" {
		msg = c.message + ": " + strings.Join(reasons, "; ")
	}
	return nil, &ValidationError{Rule: c.name, Message: msg, Value: v}
}

func (c *Composite) validateNot(ctx context.Context, rctx *Context, v any) (any, error) {
	if _, err := c.subs[0].Validate(ctx, rctx, v); err != nil {
		return v, nil
	}
	return nil, &ValidationError{Rule: c.name, Message: c.message, Value: v}
}
