package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetforge/assetforge/engine/core"
	"github.com/assetforge/assetforge/engine/rule"
	"github.com/assetforge/assetforge/engine/rule/rules"
)

func TestRegistry(t *testing.T) {
	t.Run("Should register and resolve a singleton rule", func(t *testing.T) {
		r := New()
		require.NoError(t, r.RegisterRule("STRING.strip", rules.Strip()))
		rl, err := r.Resolve("STRING.strip", nil)
		require.NoError(t, err)
		assert.Equal(t, "strip", rl.Name())
	})

	t.Run("Should reject a duplicate path", func(t *testing.T) {
		r := New()
		require.NoError(t, r.RegisterRule("STRING.strip", rules.Strip()))
		err := r.RegisterRule("STRING.strip", rules.Strip())
		require.Error(t, err)
		assert.True(t, core.IsCode(err, core.ErrCodeDuplicateRule))
	})

	t.Run("Should reject undotted paths", func(t *testing.T) {
		r := New()
		err := r.RegisterRule("strip", rules.Strip())
		assert.True(t, core.IsCode(err, core.ErrCodeInvalidDeclaration))
	})

	t.Run("Should resolve a factory with params", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Register("STRING.max_len", maxLenFactory))
		rl, err := r.Resolve("STRING.max_len", map[string]any{"max": 3})
		require.NoError(t, err)
		v, ok := rl.(rule.Validator)
		require.True(t, ok)
		_, err = v.Validate(context.Background(), &rule.Context{}, "abcd")
		assert.Error(t, err)
	})

	t.Run("Should fail resolution of unknown paths", func(t *testing.T) {
		r := New()
		_, err := r.Resolve("STRING.missing", nil)
		assert.True(t, core.IsCode(err, core.ErrCodeUnknownRule))
	})

	t.Run("Should list namespaces segment-aware", func(t *testing.T) {
		r := New()
		require.NoError(t, r.RegisterRule("STRING.strip", rules.Strip()))
		require.NoError(t, r.RegisterRule("STRINGX.strip", rules.Strip()))
		paths := r.Namespace("STRING")
		assert.Equal(t, []string{"STRING.strip"}, paths)
	})

	t.Run("Should allow concurrent lookups during registration", func(t *testing.T) {
		r := New()
		require.NoError(t, r.RegisterRule("STRING.strip", rules.Strip()))
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					_, _ = r.Lookup("STRING.strip")
				}
			}()
		}
		for i := 0; i < 50; i++ {
			_ = r.RegisterRule("STRING.strip", rules.Strip()) // duplicates rejected
		}
		wg.Wait()
		assert.Equal(t, 1, r.Len())
	})
}

func TestBootstrap(t *testing.T) {
	t.Run("Should pre-register the built-in namespaces", func(t *testing.T) {
		r, err := Bootstrap()
		require.NoError(t, err)
		assert.NotEmpty(t, r.Namespace(NamespaceString))
		assert.NotEmpty(t, r.Namespace(NamespaceNumeric))
		assert.NotEmpty(t, r.Namespace(NamespaceTime))
		assert.NotEmpty(t, r.Namespace(NamespacePath))
		assert.NotEmpty(t, r.Namespace(NamespaceCollection))
	})

	t.Run("Should resolve a CEL factory rule", func(t *testing.T) {
		r, err := Bootstrap()
		require.NoError(t, err)
		rl, err := r.Resolve("EXPR.cel", map[string]any{
			"name":       "short",
			"expression": "size(value) < 4",
		})
		require.NoError(t, err)
		v := rl.(rule.Validator)
		_, err = v.Validate(context.Background(), &rule.Context{}, "abc")
		assert.NoError(t, err)
		_, err = v.Validate(context.Background(), &rule.Context{}, "abcdef")
		assert.Error(t, err)
	})

	t.Run("Should surface bad factory params as configuration errors", func(t *testing.T) {
		r, err := Bootstrap()
		require.NoError(t, err)
		_, err = r.Resolve("STRING.matches", map[string]any{})
		assert.True(t, core.IsCode(err, core.ErrCodeInvalidRuleParams))
	})
}
