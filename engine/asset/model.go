package asset

import (
	"context"
	"sync"

	"github.com/assetforge/assetforge/engine/rule"
)

// Field is one named, independently rule-checked slot of a model.
type Field struct {
	Name     string
	Required bool
	chain    *Chain
}

// Model is the tier-2 kind shaped as a structured record: each field runs
// its own chain, and record-level validity requires every field valid.
type Model struct {
	baseAsset
	mu     sync.RWMutex
	fields []*Field
	// extra holds whole-record rules added through the tier-2 surface.
	extra *Chain
}

// Fields returns the field names in declared order.
func (m *Model) Fields() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		out = append(out, f.Name)
	}
	return out
}

// FieldRules returns the named field's rule chain in declared order.
func (m *Model) FieldRules(name string) []rule.Rule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.fields {
		if f.Name == name {
			return f.chain.Rules()
		}
	}
	return nil
}

// AddRule attaches a whole-record rule, run after every field passes.
func (m *Model) AddRule(r rule.Rule) { m.extra.Add(r) }

func (m *Model) RemoveRule(name string) bool { return m.extra.Remove(name) }

func (m *Model) Rules() []rule.Rule { return m.extra.Rules() }

func (m *Model) ClearRules() { m.extra.Clear() }

func (m *Model) Partition() ([]rule.Normalizer, []rule.Validator) { return m.extra.Partition() }

// Process validates a record (map of field name to value). Each field's
// chain runs in the model's declared field order; the first failing field
// fails the record. Keys without a field declaration pass through unchanged.
// The input map is never mutated.
func (m *Model) Process(ctx context.Context, v any) (any, error) {
	record, ok := v.(map[string]any)
	if !ok {
		return nil, rule.Failf(m.desc.Name, v, "expected a record, got %T", v)
	}
	out := make(map[string]any, len(record))
	for k, val := range record {
		out[k] = val
	}
	m.mu.RLock()
	fields := make([]*Field, len(m.fields))
	copy(fields, m.fields)
	m.mu.RUnlock()
	for _, f := range fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		val, present := out[f.Name]
		if !present {
			if f.Required {
				return nil, rule.Failf(m.desc.Name, v, "missing required field %q", f.Name)
			}
			continue
		}
		normalized, err := f.chain.Run(ctx, &rule.Context{Asset: m.desc.Name, Field: f.Name}, val)
		if err != nil {
			return nil, err
		}
		out[f.Name] = normalized
	}
	return m.extra.Run(ctx, &rule.Context{Asset: m.desc.Name}, out)
}
