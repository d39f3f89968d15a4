// Package diagnostics inspects concrete asset types and reports their
// capability tier, the operation groups they satisfy, and any consistency
// violations. Inspection is pure: it never errors and never panics.
package diagnostics

import (
	"context"

	"github.com/assetforge/assetforge/engine/asset"
	"github.com/assetforge/assetforge/engine/infra/cache"
	"github.com/assetforge/assetforge/engine/infra/tracing"
	"github.com/assetforge/assetforge/engine/rule"
	"github.com/assetforge/assetforge/engine/tag"
)

// The supporting operation groups (mixins) behind each tier. Tier membership
// is decided by an explicit capability matrix over these groups, checked by
// type assertion, never by reflection over method names.

type metadataOps interface {
	Name() string
	Describe() string
	Descriptor() asset.Descriptor
	Metadata() map[string]any
	Meta(key string) (any, bool)
}

type tagOps interface {
	Tags() tag.Set
	HasTag(t *tag.Tag) bool
	HasTagUnder(ancestor *tag.Tag) bool
}

type ruleChainOps interface {
	AddRule(r rule.Rule)
	RemoveRule(name string) bool
	Rules() []rule.Rule
	ClearRules()
	Partition() ([]rule.Normalizer, []rule.Validator)
}

type pipelineOps interface {
	Process(ctx context.Context, v any) (any, error)
}

type cachingOps interface {
	ProcessCached(ctx context.Context, v any) (any, error)
	CacheStats() cache.Stats
}

type tracingOps interface {
	TraceLog() []tracing.Record
}

type serializationOps interface {
	SafeSerialize(masked bool) ([]byte, error)
}

// Group names used in reports.
const (
	GroupMetadata      = "metadata"
	GroupTags          = "tags"
	GroupRuleChain     = "rulechain"
	GroupPipeline      = "pipeline"
	GroupCaching       = "caching"
	GroupTracing       = "tracing"
	GroupSerialization = "serialization"
)

// Tier names used in reports.
const (
	TierNameCore      = "core"
	TierNameValidated = "validated"
	TierNameAdvanced  = "advanced"
)

// matrix maps each tier to the operation groups it requires. Higher tiers
// repeat the lower tiers' groups: tier 3 implies tier 2 implies tier 1.
var matrix = map[string][]string{
	TierNameCore:      {GroupMetadata, GroupTags},
	TierNameValidated: {GroupMetadata, GroupTags, GroupRuleChain, GroupPipeline},
	TierNameAdvanced: {
		GroupMetadata, GroupTags, GroupRuleChain, GroupPipeline,
		GroupCaching, GroupTracing, GroupSerialization,
	},
}

// Report is the structured result of one inspection, consumable by external
// tooling such as a declaration linter.
type Report struct {
	// Tier is the highest fully-satisfied tier: 0 when not even Core.
	Tier int `json:"tier"`
	// Satisfies records which tier interfaces the type structurally meets.
	Satisfies map[string]bool `json:"satisfies"`
	// Groups records which operation groups the type implements.
	Groups map[string]bool `json:"groups"`
	// Required lists, per satisfied tier, the groups the matrix demands.
	Required map[string][]string `json:"required"`
	// Violations lists consistency problems, e.g. advanced operations
	// without the full validated surface.
	Violations []string `json:"violations,omitempty"`
}

func groupsOf(v any) map[string]bool {
	groups := make(map[string]bool, 7)
	_, groups[GroupMetadata] = v.(metadataOps)
	_, groups[GroupTags] = v.(tagOps)
	_, groups[GroupRuleChain] = v.(ruleChainOps)
	_, groups[GroupPipeline] = v.(pipelineOps)
	_, groups[GroupCaching] = v.(cachingOps)
	_, groups[GroupTracing] = v.(tracingOps)
	_, groups[GroupSerialization] = v.(serializationOps)
	return groups
}

func satisfiesTier(groups map[string]bool, tier string) bool {
	for _, g := range matrix[tier] {
		if !groups[g] {
			return false
		}
	}
	return true
}

// Inspect computes the capability report for any concrete value.
func Inspect(v any) Report {
	report := Report{
		Satisfies: make(map[string]bool, 3),
		Required:  make(map[string][]string, 3),
	}
	if v == nil {
		report.Violations = append(report.Violations, "value is nil")
		report.Groups = map[string]bool{}
		return report
	}
	report.Groups = groupsOf(v)
	report.Satisfies[TierNameCore] = satisfiesTier(report.Groups, TierNameCore)
	report.Satisfies[TierNameValidated] = satisfiesTier(report.Groups, TierNameValidated)
	report.Satisfies[TierNameAdvanced] = satisfiesTier(report.Groups, TierNameAdvanced)
	switch {
	case report.Satisfies[TierNameAdvanced]:
		report.Tier = asset.TierAdvanced
	case report.Satisfies[TierNameValidated]:
		report.Tier = asset.TierValidated
	case report.Satisfies[TierNameCore]:
		report.Tier = asset.TierCore
	default:
		report.Tier = asset.TierNone
	}
	for tier, required := range matrix {
		if report.Satisfies[tier] {
			report.Required[tier] = append([]string(nil), required...)
		}
	}
	report.Violations = append(report.Violations, violationsOf(report.Groups, report.Satisfies)...)
	return report
}

// violationsOf flags structures that claim higher-tier operations without
// carrying the lower tiers underneath.
func violationsOf(groups, satisfies map[string]bool) []string {
	var out []string
	advancedMarkers := groups[GroupCaching] || groups[GroupTracing] || groups[GroupSerialization]
	if advancedMarkers && !satisfies[TierNameValidated] {
		out = append(out, "advanced operations present without the full validated surface")
	}
	if groups[GroupPipeline] && !groups[GroupRuleChain] {
		out = append(out, "pipeline execution present without rule-chain management")
	}
	if groups[GroupRuleChain] && !satisfies[TierNameCore] {
		out = append(out, "rule-chain management present without the core surface")
	}
	if groups[GroupTags] != groups[GroupMetadata] {
		out = append(out, "tag operations and metadata operations must come together")
	}
	return out
}
