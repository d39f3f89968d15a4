package asset

import (
	"context"
	"sort"
	"sync"
	"time"

	"dario.cat/mergo"

	"github.com/assetforge/assetforge/engine/core"
	"github.com/assetforge/assetforge/engine/infra/cache"
	"github.com/assetforge/assetforge/engine/infra/tracing"
	"github.com/assetforge/assetforge/engine/registry"
	"github.com/assetforge/assetforge/engine/rule"
	"github.com/assetforge/assetforge/engine/tag"
	"github.com/assetforge/assetforge/pkg/config"
	"github.com/assetforge/assetforge/pkg/logger"
)

// Shared cache defaults used when the caller does not supply instances.
const (
	DefaultLRUCapacity     = 1024
	DefaultTTL             = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// RuleRef references a rule declaratively: a registry path with optional
// params, or an inline pre-built rule that bypasses the registry.
type RuleRef struct {
	Path   string
	Params map[string]any
	Rule   rule.Rule
}

// Factory is the engine facade every declaration goes through. It owns the
// rule registry, the tag registry, the two shared caches, and the tracer
// explicitly, so no hidden process-wide state exists. Built assets are held
// in the factory's catalog under their unique names.
type Factory struct {
	rules  *registry.Registry
	tags   *tag.Registry
	lru    cache.Cache
	ttl    cache.Cache
	tracer *tracing.Tracer
	log    logger.Logger

	mu     sync.RWMutex
	assets map[string]Core
}

// FactoryOption customizes a Factory's collaborators.
type FactoryOption func(*Factory)

func WithRegistry(r *registry.Registry) FactoryOption {
	return func(f *Factory) { f.rules = r }
}

func WithTagRegistry(r *tag.Registry) FactoryOption {
	return func(f *Factory) { f.tags = r }
}

func WithLRUCache(c cache.Cache) FactoryOption {
	return func(f *Factory) { f.lru = c }
}

func WithTTLCache(c cache.Cache) FactoryOption {
	return func(f *Factory) { f.ttl = c }
}

func WithTracer(t *tracing.Tracer) FactoryOption {
	return func(f *Factory) { f.tracer = t }
}

func WithLogger(l logger.Logger) FactoryOption {
	return func(f *Factory) { f.log = l }
}

// NewFactory builds a factory with the given collaborators, bootstrapping
// defaults for any not supplied.
func NewFactory(opts ...FactoryOption) (*Factory, error) {
	f := &Factory{assets: make(map[string]Core)}
	for _, opt := range opts {
		opt(f)
	}
	if f.rules == nil {
		r, err := registry.Bootstrap()
		if err != nil {
			return nil, err
		}
		f.rules = r
	}
	if f.tags == nil {
		f.tags = tag.NewRegistry()
	}
	if f.lru == nil {
		c, err := cache.NewLRU(DefaultLRUCapacity)
		if err != nil {
			return nil, err
		}
		f.lru = c
	}
	if f.ttl == nil {
		f.ttl = cache.NewTTL(DefaultTTL, DefaultCleanupInterval)
	}
	if f.tracer == nil {
		t, err := tracing.New(context.Background(), tracing.DefaultConfig())
		if err != nil {
			return nil, err
		}
		f.tracer = t
	}
	if f.log == nil {
		f.log = logger.GetDefault()
	}
	return f, nil
}

// FromConfig derives factory options from engine configuration: cache sizes,
// tracing, and the logger the factory reports through.
func FromConfig(ctx context.Context, cfg *config.Config) ([]FactoryOption, error) {
	lru, err := cache.NewLRU(cfg.Cache.LRUCapacity)
	if err != nil {
		return nil, err
	}
	ttl := cache.NewTTL(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		PrettyPrint: cfg.Tracing.PrettyPrint,
	})
	if err != nil {
		return nil, err
	}
	log := logger.NewLogger(&logger.Config{
		Level: logger.LogLevel(cfg.Log.Level),
		JSON:  cfg.Log.JSON,
	})
	return []FactoryOption{
		WithLRUCache(lru),
		WithTTLCache(ttl),
		WithTracer(tracer),
		WithLogger(log),
	}, nil
}

// Rules exposes the owned rule registry to callers registering custom rules.
func (f *Factory) Rules() *registry.Registry { return f.rules }

// TagTree exposes the owned tag registry.
func (f *Factory) TagTree() *tag.Registry { return f.tags }

// Get returns the built asset registered under name.
func (f *Factory) Get(name string) (Core, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	a, ok := f.assets[name]
	return a, ok
}

// Names returns the sorted names of every built asset.
func (f *Factory) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.assets))
	for n := range f.assets {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (f *Factory) register(a Core) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.assets[a.Name()]; exists {
		return core.NewError(nil, core.ErrCodeDuplicateAsset, map[string]any{
			"asset": a.Name(),
		})
	}
	f.assets[a.Name()] = a
	return nil
}

// resolveChain turns declarative rule references into a chain, preserving
// declared order.
func (f *Factory) resolveChain(refs []RuleRef) (*Chain, error) {
	chain := NewChain()
	for _, ref := range refs {
		r := ref.Rule
		if r == nil {
			resolved, err := f.rules.Resolve(ref.Path, ref.Params)
			if err != nil {
				return nil, err
			}
			r = resolved
		}
		chain.Add(r)
	}
	return chain, nil
}

// -----------------------------------------------------------------------------
// Declaration options
// -----------------------------------------------------------------------------

// BuildOption customizes one asset declaration.
type BuildOption func(*Descriptor) error

// WithMetadata merges extra metadata over the generated defaults.
func WithMetadata(meta map[string]any) BuildOption {
	return func(d *Descriptor) error {
		if d.Metadata == nil {
			d.Metadata = make(map[string]any)
		}
		return mergo.Merge(&d.Metadata, meta, mergo.WithOverride)
	}
}

// WithCaching opts the asset into cached pipeline execution, promoting it to
// tier 3.
func WithCaching(kind cache.Kind) BuildOption {
	return func(d *Descriptor) error {
		if kind != cache.KindLRU && kind != cache.KindTTL {
			return core.NewError(nil, core.ErrCodeInvalidDeclaration, map[string]any{
				"cache_kind": string(kind),
			})
		}
		d.EnableCaching = true
		d.CacheKind = kind
		return nil
	}
}

// WithSensitive flags metadata keys masked by the tier-3 safe serializer.
func WithSensitive(keys ...string) BuildOption {
	return func(d *Descriptor) error {
		d.Sensitive = append(d.Sensitive, keys...)
		return nil
	}
}

func (f *Factory) newDescriptor(name string, kind Kind, base BaseType, description string, tags tag.Set, opts []BuildOption) (Descriptor, error) {
	if name == "" {
		return Descriptor{}, core.NewError(nil, core.ErrCodeInvalidDeclaration, map[string]any{
			"reason": "asset name must not be empty",
		})
	}
	if !base.Valid() {
		return Descriptor{}, core.NewError(nil, core.ErrCodeInvalidDeclaration, map[string]any{
			"asset": name,
			"base":  string(base),
		})
	}
	d := Descriptor{
		Name:        name,
		Kind:        kind,
		Base:        base,
		Description: description,
		Tags:        tags,
		Metadata: map[string]any{
			"base": string(base),
			"kind": string(kind),
		},
	}
	for _, opt := range opts {
		if err := opt(&d); err != nil {
			return Descriptor{}, err
		}
	}
	return d, nil
}

// promote wraps a tier-2 asset in the generic advanced container when its
// descriptor opts into caching.
func (f *Factory) promote(v Validated, d Descriptor) (Validated, error) {
	if !d.EnableCaching {
		return v, nil
	}
	shared := f.lru
	if d.CacheKind == cache.KindTTL {
		shared = f.ttl
	}
	return &AdvancedAsset{
		Validated: v,
		cache:     shared,
		recorder:  tracing.NewRecorder(tracing.DefaultRecorderCapacity),
		tracer:    f.tracer,
	}, nil
}

// -----------------------------------------------------------------------------
// Builders
// -----------------------------------------------------------------------------

// BuildPrimitive declares a tier-1 wrapper around a built-in value type.
func (f *Factory) BuildPrimitive(name string, base BaseType, opts ...BuildOption) (*Primitive, error) {
	d, err := f.newDescriptor(name, KindPrimitive, base, "", tag.Set{}, opts)
	if err != nil {
		return nil, err
	}
	if d.EnableCaching {
		return nil, core.NewError(nil, core.ErrCodeInvalidTier, map[string]any{
			"asset":  name,
			"reason": "primitives are tier 1 and cannot opt into caching",
		})
	}
	p := &Primitive{baseAsset{desc: d}}
	if err := f.register(p); err != nil {
		return nil, err
	}
	f.log.Debug("asset built", "asset", name, "kind", KindPrimitive)
	return p, nil
}

// BuildAlias declares a validated/normalized specialization of a primitive.
// The returned asset is tier 2, or tier 3 when WithCaching is given.
func (f *Factory) BuildAlias(
	name string,
	base BaseType,
	refs []RuleRef,
	tags tag.Set,
	description string,
	opts ...BuildOption,
) (Validated, error) {
	d, err := f.newDescriptor(name, KindAlias, base, description, tags, opts)
	if err != nil {
		return nil, err
	}
	chain, err := f.resolveChain(refs)
	if err != nil {
		return nil, err
	}
	built, err := f.promote(&Alias{baseAsset: baseAsset{desc: d}, chain: chain}, d)
	if err != nil {
		return nil, err
	}
	if err := f.register(built); err != nil {
		return nil, err
	}
	f.log.Debug("asset built", "asset", name, "kind", KindAlias, "rules", chain.Len(), "cached", d.EnableCaching)
	return built, nil
}

// BuildEnum declares a fixed, named value set with per-member metadata.
func (f *Factory) BuildEnum(
	name string,
	base BaseType,
	description string,
	tags tag.Set,
	members []Member,
	opts ...BuildOption,
) (Validated, error) {
	if len(members) == 0 {
		return nil, core.NewError(nil, core.ErrCodeInvalidDeclaration, map[string]any{
			"asset":  name,
			"reason": "an enum needs at least one member",
		})
	}
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if m.Name == "" || seen[m.Name] {
			return nil, core.NewError(nil, core.ErrCodeInvalidDeclaration, map[string]any{
				"asset":  name,
				"member": m.Name,
				"reason": "member names must be unique and non-empty",
			})
		}
		seen[m.Name] = true
	}
	d, err := f.newDescriptor(name, KindEnum, base, description, tags, opts)
	if err != nil {
		return nil, err
	}
	ms := make([]Member, len(members))
	copy(ms, members)
	e := &Enum{
		baseAsset: baseAsset{desc: d},
		chain:     NewChain(membershipValidator(name, ms)),
		members:   ms,
	}
	built, err := f.promote(e, d)
	if err != nil {
		return nil, err
	}
	if err := f.register(built); err != nil {
		return nil, err
	}
	f.log.Debug("asset built", "asset", name, "kind", KindEnum, "members", len(ms))
	return built, nil
}

// FieldDef declares one model field and its rule references.
type FieldDef struct {
	Name     string
	Required bool
	Rules    []RuleRef
}

// BuildModel declares a structured record of named fields, each
// independently rule-checked.
func (f *Factory) BuildModel(
	name string,
	description string,
	tags tag.Set,
	fields []FieldDef,
	opts ...BuildOption,
) (Validated, error) {
	if len(fields) == 0 {
		return nil, core.NewError(nil, core.ErrCodeInvalidDeclaration, map[string]any{
			"asset":  name,
			"reason": "a model needs at least one field",
		})
	}
	d, err := f.newDescriptor(name, KindModel, BaseCollection, description, tags, opts)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(fields))
	built := make([]*Field, 0, len(fields))
	for _, fd := range fields {
		if fd.Name == "" || seen[fd.Name] {
			return nil, core.NewError(nil, core.ErrCodeInvalidDeclaration, map[string]any{
				"asset":  name,
				"field":  fd.Name,
				"reason": "field names must be unique and non-empty",
			})
		}
		seen[fd.Name] = true
		chain, err := f.resolveChain(fd.Rules)
		if err != nil {
			return nil, err
		}
		built = append(built, &Field{Name: fd.Name, Required: fd.Required, chain: chain})
	}
	m := &Model{baseAsset: baseAsset{desc: d}, fields: built, extra: NewChain()}
	asModel, err := f.promote(m, d)
	if err != nil {
		return nil, err
	}
	if err := f.register(asModel); err != nil {
		return nil, err
	}
	f.log.Debug("asset built", "asset", name, "kind", KindModel, "fields", len(built))
	return asModel, nil
}
