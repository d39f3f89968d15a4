package asset

import (
	"github.com/assetforge/assetforge/engine/infra/cache"
	"github.com/assetforge/assetforge/engine/tag"
)

// -----------------------------------------------------------------------------
// Base types and asset kinds
// -----------------------------------------------------------------------------

// BaseType is the built-in primitive an asset wraps.
type BaseType string

const (
	BaseString     BaseType = "string"
	BaseNumber     BaseType = "number"
	BaseTime       BaseType = "timestamp"
	BasePath       BaseType = "path"
	BaseCollection BaseType = "collection"
)

func (b BaseType) Valid() bool {
	switch b {
	case BaseString, BaseNumber, BaseTime, BasePath, BaseCollection:
		return true
	default:
		return false
	}
}

// Kind is the construction shape of an asset type.
type Kind string

const (
	// KindPrimitive is a thin wrapper around a built-in value type: no
	// rules, tier 1 only.
	KindPrimitive Kind = "primitive"
	// KindAlias is a validated/normalized specialization of a primitive.
	KindAlias Kind = "alias"
	// KindModel is a structured record of named, independently rule-checked
	// fields.
	KindModel Kind = "model"
	// KindEnum is a fixed, named value set with per-value metadata.
	KindEnum Kind = "enum"
)

// -----------------------------------------------------------------------------
// Descriptor
// -----------------------------------------------------------------------------

// Descriptor is the immutable configuration of a generated asset type. It is
// created at declaration time and never mutated afterwards; rule-chain edits
// go through the explicit tier-2 operations, which rebuild the chain.
type Descriptor struct {
	Name          string         `json:"name"`
	Kind          Kind           `json:"kind"`
	Base          BaseType       `json:"base"`
	Description   string         `json:"description,omitempty"`
	Tags          tag.Set        `json:"-"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	EnableCaching bool           `json:"enable_caching"`
	CacheKind     cache.Kind     `json:"cache_kind,omitempty"`
	// Sensitive lists metadata keys and model fields masked by the tier-3
	// safe serializer.
	Sensitive []string `json:"-"`
}

// clone returns a deep-enough copy so callers can never mutate a stored
// descriptor through the returned value.
func (d Descriptor) clone() Descriptor {
	out := d
	out.Metadata = copyMetadata(d.Metadata)
	out.Sensitive = append([]string(nil), d.Sensitive...)
	return out
}

func copyMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
