package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	t.Run("Should be stable for equal inputs", func(t *testing.T) {
		assert.Equal(t, Key("cache_key", " MyKey "), Key("cache_key", " MyKey "))
	})

	t.Run("Should differ across assets and inputs", func(t *testing.T) {
		assert.NotEqual(t, Key("a", "x"), Key("b", "x"))
		assert.NotEqual(t, Key("a", "x"), Key("a", "y"))
	})

	t.Run("Should be order-sensitive for multiple inputs", func(t *testing.T) {
		assert.NotEqual(t, Key("a", "x", "y"), Key("a", "y", "x"))
	})
}

func TestLRU(t *testing.T) {
	t.Run("Should count hits and misses", func(t *testing.T) {
		c, err := NewLRU(4)
		require.NoError(t, err)
		_, ok := c.Get("k")
		assert.False(t, ok)
		c.Add("k", 1)
		v, ok := c.Get("k")
		require.True(t, ok)
		assert.Equal(t, 1, v)
		stats := c.Stats()
		assert.Equal(t, uint64(1), stats.Hits)
		assert.Equal(t, uint64(1), stats.Misses)
	})

	t.Run("Should evict least-recently-used on overflow", func(t *testing.T) {
		c, err := NewLRU(2)
		require.NoError(t, err)
		c.Add("a", 1)
		c.Add("b", 2)
		_, _ = c.Get("a") // refresh a
		c.Add("c", 3)     // evicts b
		_, ok := c.Get("b")
		assert.False(t, ok)
		_, ok = c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, uint64(1), c.Stats().Evictions)
	})

	t.Run("Should reject a non-positive capacity", func(t *testing.T) {
		_, err := NewLRU(0)
		assert.Error(t, err)
	})

	t.Run("Should purge all entries", func(t *testing.T) {
		c, err := NewLRU(4)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			c.Add(fmt.Sprintf("k%d", i), i)
		}
		require.Equal(t, 3, c.Len())
		c.Purge()
		assert.Equal(t, 0, c.Len())
	})
}

func TestTTL(t *testing.T) {
	t.Run("Should expire entries after the ttl", func(t *testing.T) {
		c := NewTTL(15*time.Millisecond, time.Minute)
		c.Add("k", "v")
		_, ok := c.Get("k")
		require.True(t, ok)
		time.Sleep(30 * time.Millisecond)
		_, ok = c.Get("k")
		assert.False(t, ok)
	})

	t.Run("Should count hits and misses", func(t *testing.T) {
		c := NewTTL(time.Minute, time.Minute)
		c.Add("k", "v")
		_, _ = c.Get("k")
		_, _ = c.Get("absent")
		stats := c.Stats()
		assert.Equal(t, uint64(1), stats.Hits)
		assert.Equal(t, uint64(1), stats.Misses)
	})

	t.Run("Should flush on purge", func(t *testing.T) {
		c := NewTTL(time.Minute, time.Minute)
		c.Add("k", "v")
		c.Purge()
		assert.Equal(t, 0, c.Len())
	})
}
