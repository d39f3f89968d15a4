// Package cache implements the validation-result memoization layer. Two
// kinds are provided: a size-bounded LRU and a time-bounded TTL cache.
// Entries hold the last successful pipeline result and are never persisted.
package cache

import (
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	gocache "github.com/patrickmn/go-cache"

	"github.com/assetforge/assetforge/engine/core"
)

// Kind selects which shared cache instance an asset opts into.
type Kind string

const (
	KindLRU Kind = "lru"
	KindTTL Kind = "ttl"
)

// Stats is a point-in-time snapshot of cache effectiveness counters.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// Cache is the minimal surface the pipeline needs. Reads and updates are
// atomic per key; a race producing duplicate computation is acceptable,
// duplicate storage is not.
type Cache interface {
	Get(key string) (any, bool)
	Add(key string, v any)
	Stats() Stats
	Purge()
	Len() int
}

// Key derives the stable cache key for one pipeline invocation from the
// asset name and the call's inputs.
func Key(asset string, inputs ...any) string {
	return asset + ":" + core.HashValues(inputs...)
}

// -----------------------------------------------------------------------------
// LRU kind
// -----------------------------------------------------------------------------

type lruCache struct {
	inner     *lru.Cache[string, any]
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewLRU returns a size-bounded cache evicting least-recently-used entries
// on overflow.
func NewLRU(capacity int) (Cache, error) {
	c := &lruCache{}
	inner, err := lru.NewWithEvict[string, any](capacity, func(string, any) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, core.NewError(err, core.ErrCodeInvalidDeclaration, map[string]any{
			"capacity": capacity,
		})
	}
	c.inner = inner
	return c, nil
}

func (c *lruCache) Get(key string) (any, bool) {
	v, ok := c.inner.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

func (c *lruCache) Add(key string, v any) {
	c.inner.Add(key, v)
}

func (c *lruCache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

func (c *lruCache) Purge() {
	c.inner.Purge()
}

func (c *lruCache) Len() int {
	return c.inner.Len()
}

// -----------------------------------------------------------------------------
// TTL kind
// -----------------------------------------------------------------------------

type ttlCache struct {
	inner  *gocache.Cache
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewTTL returns a time-bounded cache evicting entries on expiry.
func NewTTL(ttl, cleanupInterval time.Duration) Cache {
	return &ttlCache{inner: gocache.New(ttl, cleanupInterval)}
}

func (c *ttlCache) Get(key string) (any, bool) {
	v, ok := c.inner.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

func (c *ttlCache) Add(key string, v any) {
	c.inner.SetDefault(key, v)
}

func (c *ttlCache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

func (c *ttlCache) Purge() {
	c.inner.Flush()
}

func (c *ttlCache) Len() int {
	return c.inner.ItemCount()
}
