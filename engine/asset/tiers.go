package asset

import (
	"context"

	"github.com/assetforge/assetforge/engine/infra/cache"
	"github.com/assetforge/assetforge/engine/infra/tracing"
	"github.com/assetforge/assetforge/engine/rule"
	"github.com/assetforge/assetforge/engine/tag"
)

// The capability-tier ladder. Tier is a static property of a concrete asset
// type, determined by which of these interfaces it implements: tier 3
// implies tier 2 implies tier 1 by construction.

// Core is tier 1: metadata map access plus tag set access and queries.
type Core interface {
	Name() string
	Describe() string
	Descriptor() Descriptor
	Metadata() map[string]any
	Meta(key string) (any, bool)
	Tags() tag.Set
	HasTag(t *tag.Tag) bool
	HasTagUnder(ancestor *tag.Tag) bool
}

// Validated is tier 2: Core plus rule-chain management, rule-chain
// processing, and the single pipeline entry point.
type Validated interface {
	Core
	AddRule(r rule.Rule)
	RemoveRule(name string) bool
	Rules() []rule.Rule
	ClearRules()
	Partition() ([]rule.Normalizer, []rule.Validator)
	Process(ctx context.Context, v any) (any, error)
}

// Advanced is tier 3: Validated plus cached pipeline execution, cache
// statistics, execution tracing, and masked serialization.
type Advanced interface {
	Validated
	ProcessCached(ctx context.Context, v any) (any, error)
	CacheStats() cache.Stats
	TraceLog() []tracing.Record
	SafeSerialize(masked bool) ([]byte, error)
}

// Tier numbers reported by diagnostics.
const (
	TierNone      = 0
	TierCore      = 1
	TierValidated = 2
	TierAdvanced  = 3
)
