package asset

import (
	"context"

	"github.com/assetforge/assetforge/engine/rule"
)

// Alias is the tier-2 kind: a validated/normalized specialization of a
// primitive whose full rule chain runs on every value construction.
type Alias struct {
	baseAsset
	chain *Chain
}

func (a *Alias) AddRule(r rule.Rule) { a.chain.Add(r) }

func (a *Alias) RemoveRule(name string) bool { return a.chain.Remove(name) }

func (a *Alias) Rules() []rule.Rule { return a.chain.Rules() }

func (a *Alias) ClearRules() { a.chain.Clear() }

func (a *Alias) Partition() ([]rule.Normalizer, []rule.Validator) { return a.chain.Partition() }

// Process runs the full pipeline against v: the normalizer sub-sequence in
// declared order, then every validator. The returned value is the fully
// normalized input; it is only produced when the entire chain passes.
func (a *Alias) Process(ctx context.Context, v any) (any, error) {
	return a.chain.Run(ctx, &rule.Context{Asset: a.desc.Name}, v)
}
