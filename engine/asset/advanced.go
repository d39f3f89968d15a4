package asset

import (
	"context"
	"encoding/json"
	"time"

	"github.com/assetforge/assetforge/engine/core"
	"github.com/assetforge/assetforge/engine/infra/cache"
	"github.com/assetforge/assetforge/engine/infra/tracing"
)

// AdvancedAsset promotes any tier-2 asset to tier 3 by composing it with a
// shared validation cache, a per-asset trace recorder, and the engine
// tracer. One generic container parameterized over the wrapped asset keeps
// every kind eligible for promotion.
type AdvancedAsset struct {
	Validated
	cache    cache.Cache
	recorder *tracing.Recorder
	tracer   *tracing.Tracer
}

// Process traces the uncached pipeline run in addition to executing it.
func (a *AdvancedAsset) Process(ctx context.Context, v any) (any, error) {
	ctx, span := a.tracer.Start(ctx, a.Name())
	defer span.End()
	start := time.Now()
	out, err := a.Validated.Process(ctx, v)
	a.recorder.Observe(a.Name(), v, out, err, false, start)
	return out, err
}

// ProcessCached memoizes successful pipeline results by the stable key of
// the input. Hits skip the pipeline entirely; misses run it and, only on
// success, populate the cache. A canceled run never stores anything, so a
// partially-applied intermediate result can never be served back.
func (a *AdvancedAsset) ProcessCached(ctx context.Context, v any) (any, error) {
	key := cache.Key(a.Name(), v)
	if cached, ok := a.cache.Get(key); ok {
		a.recorder.Observe(a.Name(), v, cached, nil, true, time.Now())
		return cached, nil
	}
	ctx, span := a.tracer.Start(ctx, a.Name())
	defer span.End()
	start := time.Now()
	out, err := a.Validated.Process(ctx, v)
	a.recorder.Observe(a.Name(), v, out, err, false, start)
	if err != nil {
		return nil, err
	}
	a.cache.Add(key, out)
	return out, nil
}

// CacheStats exposes the shared cache's effectiveness counters.
func (a *AdvancedAsset) CacheStats() cache.Stats {
	return a.cache.Stats()
}

// TraceLog returns this asset's recorded executions, oldest first.
func (a *AdvancedAsset) TraceLog() []tracing.Record {
	return a.recorder.Snapshot()
}

// safeView is the serialized shape of an asset.
type safeView struct {
	Descriptor Descriptor  `json:"descriptor"`
	Tags       []string    `json:"tags,omitempty"`
	Rules      []string    `json:"rules"`
	Cache      cache.Stats `json:"cache"`
}

// SafeSerialize renders the asset's configuration as JSON. With masked set,
// metadata keys flagged as sensitive are replaced by the mask marker.
func (a *AdvancedAsset) SafeSerialize(masked bool) ([]byte, error) {
	desc := a.Descriptor()
	if masked {
		desc.Metadata = core.MaskKeys(desc.Metadata, desc.Sensitive)
	}
	rules := a.Rules()
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name())
	}
	return json.Marshal(safeView{
		Descriptor: desc,
		Tags:       desc.Tags.Paths(),
		Rules:      names,
		Cache:      a.cache.Stats(),
	})
}
