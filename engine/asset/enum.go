package asset

import (
	"context"
	"sort"
	"strings"

	"github.com/assetforge/assetforge/engine/core"
	"github.com/assetforge/assetforge/engine/rule"
)

// Member is one named value of an enum with its attached metadata.
type Member struct {
	Name     string         `json:"name"`
	Value    any            `json:"value"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Enum is the tier-2 kind holding a fixed, named value set. Membership is
// enforced by a generated validator at the head of the rule chain, so the
// whole-value pipeline semantics match the other kinds.
type Enum struct {
	baseAsset
	chain   *Chain
	members []Member
}

// membershipValidator generates the validator that anchors every enum chain.
func membershipValidator(assetName string, members []Member) rule.Validator {
	name := "enum_member(" + assetName + ")"
	return rule.NewValidator(name, func(_ context.Context, _ *rule.Context, v any) (any, error) {
		key := core.HashValue(v)
		allowed := make([]string, 0, len(members))
		for _, m := range members {
			if core.HashValue(m.Value) == key {
				return v, nil
			}
			allowed = append(allowed, m.Name)
		}
		return nil, rule.Failf(name, v, "not a member; allowed: %s", strings.Join(allowed, ", "))
	})
}

// Members returns the value set in declared order.
func (e *Enum) Members() []Member {
	out := make([]Member, len(e.members))
	copy(out, e.members)
	return out
}

// Member returns the named member and its metadata.
func (e *Enum) Member(name string) (Member, bool) {
	for _, m := range e.members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// MemberNames returns the sorted member names.
func (e *Enum) MemberNames() []string {
	out := make([]string, 0, len(e.members))
	for _, m := range e.members {
		out = append(out, m.Name)
	}
	sort.Strings(out)
	return out
}

func (e *Enum) AddRule(r rule.Rule) { e.chain.Add(r) }

func (e *Enum) RemoveRule(name string) bool { return e.chain.Remove(name) }

func (e *Enum) Rules() []rule.Rule { return e.chain.Rules() }

// ClearRules drops every extra rule but regenerates the membership anchor:
// an enum with no membership check is no longer an enum.
func (e *Enum) ClearRules() {
	e.chain.Clear()
	e.chain.Add(membershipValidator(e.desc.Name, e.members))
}

func (e *Enum) Partition() ([]rule.Normalizer, []rule.Validator) { return e.chain.Partition() }

// Process runs the same pipeline as every other kind at whole-value
// granularity; the generated membership validator rejects unknown values.
func (e *Enum) Process(ctx context.Context, v any) (any, error) {
	return e.chain.Run(ctx, &rule.Context{Asset: e.desc.Name}, v)
}
