package rule

import (
	"context"
)

// -----------------------------------------------------------------------------
// Rule contracts
// -----------------------------------------------------------------------------

// Kind distinguishes the two fundamental step shapes.
type Kind int

const (
	// KindNormalizer steps may transform the value, including its type.
	KindNormalizer Kind = iota + 1
	// KindValidator steps check the value and must return it unchanged.
	KindValidator
)

func (k Kind) String() string {
	switch k {
	case KindNormalizer:
		return "normalizer"
	case KindValidator:
		return "validator"
	default:
		return "unknown"
	}
}

// Context carries ambient call information into a rule. Rules must treat it
// as read-only and must not reach for shared state beyond it.
type Context struct {
	// Asset is the name of the asset type whose pipeline is running.
	Asset string
	// Field is set when a model validates one named field at a time.
	Field string
}

// Rule is a single pipeline step, either a Normalizer or a Validator.
// Rules are created once, immutable, and referenced by many assets.
type Rule interface {
	Name() string
	Kind() Kind
}

// Normalizer transforms a value. It returns an error only when the input is
// fundamentally unusable; when the transformation simply does not apply it
// passes the value through unchanged.
type Normalizer interface {
	Rule
	Normalize(ctx context.Context, rctx *Context, v any) (any, error)
}

// Validator checks a value and returns it unchanged on success.
type Validator interface {
	Rule
	Validate(ctx context.Context, rctx *Context, v any) (any, error)
}

// -----------------------------------------------------------------------------
// Func adapters
// -----------------------------------------------------------------------------

type normalizerFunc struct {
	name string
	fn   func(ctx context.Context, rctx *Context, v any) (any, error)
}

// NewNormalizer wraps fn as a named Normalizer.
func NewNormalizer(name string, fn func(ctx context.Context, rctx *Context, v any) (any, error)) Normalizer {
	return &normalizerFunc{name: name, fn: fn}
}

func (n *normalizerFunc) Name() string { return n.name }
func (n *normalizerFunc) Kind() Kind   { return KindNormalizer }

func (n *normalizerFunc) Normalize(ctx context.Context, rctx *Context, v any) (any, error) {
	return n.fn(ctx, rctx, v)
}

type validatorFunc struct {
	name string
	fn   func(ctx context.Context, rctx *Context, v any) (any, error)
}

// NewValidator wraps fn as a named Validator. The wrapped fn must return the
// input value unchanged on success.
func NewValidator(name string, fn func(ctx context.Context, rctx *Context, v any) (any, error)) Validator {
	return &validatorFunc{name: name, fn: fn}
}

func (r *validatorFunc) Name() string { return r.name }
func (r *validatorFunc) Kind() Kind   { return KindValidator }

func (r *validatorFunc) Validate(ctx context.Context, rctx *Context, v any) (any, error) {
	return r.fn(ctx, rctx, v)
}
