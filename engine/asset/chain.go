package asset

import (
	"context"
	"sync"

	"github.com/assetforge/assetforge/engine/rule"
)

// Chain is the ordered rule list attached to an asset. It is partitioned at
// construction into the normalizer sub-sequence (applied first, in declared
// order) followed by the validator sub-sequence (applied second, in declared
// order, all must pass). Declared ordering is preserved exactly.
type Chain struct {
	mu    sync.RWMutex
	rules []rule.Rule
}

// NewChain builds a chain over the given rules in declared order.
func NewChain(rules ...rule.Rule) *Chain {
	c := &Chain{}
	for _, r := range rules {
		c.Add(r)
	}
	return c
}

// Add appends a rule. Adding a rule whose name is already present is a
// no-op, making the operation idempotent.
func (c *Chain) Add(r rule.Rule) {
	if r == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cur := range c.rules {
		if cur.Name() == r.Name() {
			return
		}
	}
	c.rules = append(c.rules, r)
}

// Remove drops the named rule, reporting whether it was present. Removing an
// absent rule is a no-op.
func (c *Chain) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, cur := range c.rules {
		if cur.Name() == name {
			c.rules = append(c.rules[:i], c.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every rule.
func (c *Chain) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = nil
}

// Rules returns the declared rule order.
func (c *Chain) Rules() []rule.Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]rule.Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Len returns the number of rules in the chain.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rules)
}

// Partition splits the chain into its normalizer and validator
// sub-sequences, each preserving declared order.
func (c *Chain) Partition() ([]rule.Normalizer, []rule.Validator) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var norms []rule.Normalizer
	var vals []rule.Validator
	for _, r := range c.rules {
		switch r.Kind() {
		case rule.KindNormalizer:
			if n, ok := r.(rule.Normalizer); ok {
				norms = append(norms, n)
			}
		case rule.KindValidator:
			if v, ok := r.(rule.Validator); ok {
				vals = append(vals, v)
			}
		}
	}
	return norms, vals
}

// Run executes the full pipeline: normalizers first, each step's output
// feeding the next, then validators, all of which must pass. Validators
// never alter the value; the first failure aborts the run and the value is
// never accepted. A canceled context aborts between steps so a partial
// normalization result is never exposed.
func (c *Chain) Run(ctx context.Context, rctx *rule.Context, v any) (any, error) {
	norms, vals := c.Partition()
	for _, n := range norms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := n.Normalize(ctx, rctx, v)
		if err != nil {
			return nil, err
		}
		v = next
	}
	for _, val := range vals {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := val.Validate(ctx, rctx, v); err != nil {
			return nil, err
		}
	}
	return v, nil
}
