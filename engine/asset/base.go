package asset

import (
	"github.com/assetforge/assetforge/engine/tag"
)

// baseAsset carries the tier-1 surface shared by every concrete kind.
type baseAsset struct {
	desc Descriptor
}

func (b *baseAsset) Name() string { return b.desc.Name }

func (b *baseAsset) Describe() string { return b.desc.Description }

// Descriptor returns a copy so the stored configuration stays immutable.
func (b *baseAsset) Descriptor() Descriptor { return b.desc.clone() }

// Metadata returns a copy of the metadata map.
func (b *baseAsset) Metadata() map[string]any { return copyMetadata(b.desc.Metadata) }

func (b *baseAsset) Meta(key string) (any, bool) {
	v, ok := b.desc.Metadata[key]
	return v, ok
}

func (b *baseAsset) Tags() tag.Set { return b.desc.Tags }

func (b *baseAsset) HasTag(t *tag.Tag) bool { return b.desc.Tags.Has(t) }

func (b *baseAsset) HasTagUnder(ancestor *tag.Tag) bool { return b.desc.Tags.HasUnder(ancestor) }

// Primitive is the tier-1 kind: a thin wrapper around a built-in value type
// with no rule chain.
type Primitive struct {
	baseAsset
}
