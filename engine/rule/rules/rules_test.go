package rules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/assetforge/assetforge/engine/core"
	"github.com/assetforge/assetforge/engine/rule"
)

var rctx = &rule.Context{Asset: "test"}

func TestStringRules(t *testing.T) {
	ctx := context.Background()

	t.Run("Should strip and lowercase in sequence", func(t *testing.T) {
		v, err := Strip().Normalize(ctx, rctx, "  MyKey  ")
		require.NoError(t, err)
		v, err = Lower().Normalize(ctx, rctx, v)
		require.NoError(t, err)
		assert.Equal(t, "mykey", v)
	})

	t.Run("Should pass non-strings through normalizers unchanged", func(t *testing.T) {
		v, err := Strip().Normalize(ctx, rctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("Should validate against a pattern", func(t *testing.T) {
		matches, err := Matches(`^[a-z0-9_]+$`)
		require.NoError(t, err)
		_, err = matches.Validate(ctx, rctx, "my_key9")
		assert.NoError(t, err)
		_, err = matches.Validate(ctx, rctx, "My Key")
		assert.Error(t, err)
	})

	t.Run("Should reject an invalid pattern at construction time", func(t *testing.T) {
		_, err := Matches(`([`)
		require.Error(t, err)
		assert.True(t, core.IsCode(err, core.ErrCodeInvalidRuleParams))
	})

	t.Run("Should report actual and maximum length on overflow", func(t *testing.T) {
		_, err := MaxLen(3).Validate(ctx, rctx, "abcdef")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "length 6")
		assert.Contains(t, err.Error(), "maximum 3")
	})

	t.Run("Should fail string validators on non-string input", func(t *testing.T) {
		_, err := NonEmpty().Validate(ctx, rctx, 12)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected a string")
	})

	t.Run("Should reject control characters", func(t *testing.T) {
		_, err := NoControlChars().Validate(ctx, rctx, "line1\nline2")
		assert.Error(t, err)
		_, err = NoControlChars().Validate(ctx, rctx, "clean value")
		assert.NoError(t, err)
	})

	t.Run("Should enforce a minimum length", func(t *testing.T) {
		_, err := MinLen(2).Validate(ctx, rctx, "a")
		assert.Error(t, err)
		_, err = MinLen(2).Validate(ctx, rctx, "ab")
		assert.NoError(t, err)
	})
}

func TestNormalizerIdempotence(t *testing.T) {
	ctx := context.Background()
	t.Run("Should yield the same result when strip and lower run twice", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			input := rapid.String().Draw(rt, "input")
			once, err := Strip().Normalize(ctx, rctx, input)
			require.NoError(rt, err)
			once, err = Lower().Normalize(ctx, rctx, once)
			require.NoError(rt, err)

			twice, err := Strip().Normalize(ctx, rctx, once)
			require.NoError(rt, err)
			twice, err = Lower().Normalize(ctx, rctx, twice)
			require.NoError(rt, err)

			assert.Equal(rt, once, twice)
		})
	})
}

func TestNumericRules(t *testing.T) {
	ctx := context.Background()

	t.Run("Should accept positive numbers of mixed Go types", func(t *testing.T) {
		for _, v := range []any{1, int32(2), int64(3), float32(0.5), 4.2} {
			_, err := Positive().Validate(ctx, rctx, v)
			assert.NoError(t, err, "value %v", v)
		}
	})

	t.Run("Should reject zero and negatives as positive", func(t *testing.T) {
		_, err := Positive().Validate(ctx, rctx, 0)
		assert.Error(t, err)
		_, err = Positive().Validate(ctx, rctx, -3)
		assert.Error(t, err)
	})

	t.Run("Should allow zero as non-negative", func(t *testing.T) {
		_, err := NonNegative().Validate(ctx, rctx, 0)
		assert.NoError(t, err)
	})

	t.Run("Should enforce inclusive range bounds", func(t *testing.T) {
		r := InRange(1, 10)
		_, err := r.Validate(ctx, rctx, 1)
		assert.NoError(t, err)
		_, err = r.Validate(ctx, rctx, 10)
		assert.NoError(t, err)
		_, err = r.Validate(ctx, rctx, 11)
		assert.Error(t, err)
	})

	t.Run("Should detect fractional parts", func(t *testing.T) {
		_, err := Integer().Validate(ctx, rctx, 3.5)
		assert.Error(t, err)
		_, err = Integer().Validate(ctx, rctx, 3.0)
		assert.NoError(t, err)
	})

	t.Run("Should fail numeric validators on non-numbers", func(t *testing.T) {
		_, err := Positive().Validate(ctx, rctx, "five")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected a number")
	})
}

func TestTimeRules(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return fixed }

	t.Run("Should parse RFC3339 strings into time.Time", func(t *testing.T) {
		v, err := ParseTime().Normalize(ctx, rctx, "2026-08-26T10:00:00Z")
		require.NoError(t, err)
		ts, ok := v.(time.Time)
		require.True(t, ok)
		assert.Equal(t, 10, ts.Hour())
	})

	t.Run("Should pass time.Time through the parser unchanged", func(t *testing.T) {
		v, err := ParseTime().Normalize(ctx, rctx, fixed)
		require.NoError(t, err)
		assert.Equal(t, fixed, v)
	})

	t.Run("Should fail on unparseable timestamp strings", func(t *testing.T) {
		_, err := ParseTime().Normalize(ctx, rctx, "yesterday-ish")
		assert.Error(t, err)
	})

	t.Run("Should reject future timestamps against the injected clock", func(t *testing.T) {
		_, err := NotInFuture(clock).Validate(ctx, rctx, fixed.Add(time.Hour))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "in the future")
		_, err = NotInFuture(clock).Validate(ctx, rctx, fixed.Add(-time.Hour))
		assert.NoError(t, err)
	})

	t.Run("Should enforce a strict lower bound", func(t *testing.T) {
		_, err := After(fixed).Validate(ctx, rctx, fixed)
		assert.Error(t, err)
		_, err = After(fixed).Validate(ctx, rctx, fixed.Add(time.Second))
		assert.NoError(t, err)
	})
}

func TestPathRules(t *testing.T) {
	ctx := context.Background()

	t.Run("Should clean redundant path segments", func(t *testing.T) {
		v, err := CleanPath().Normalize(ctx, rctx, "a/b/../c//d")
		require.NoError(t, err)
		assert.Equal(t, "a/c/d", v)
	})

	t.Run("Should reject traversal outside the root", func(t *testing.T) {
		_, err := NoTraversal().Validate(ctx, rctx, "../etc/passwd")
		assert.Error(t, err)
		_, err = NoTraversal().Validate(ctx, rctx, "data/files")
		assert.NoError(t, err)
	})

	t.Run("Should distinguish absolute from relative paths", func(t *testing.T) {
		_, err := Absolute().Validate(ctx, rctx, "/var/log")
		assert.NoError(t, err)
		_, err = Absolute().Validate(ctx, rctx, "var/log")
		assert.Error(t, err)
		_, err = Relative().Validate(ctx, rctx, "var/log")
		assert.NoError(t, err)
	})
}

func TestCollectionRules(t *testing.T) {
	ctx := context.Background()

	t.Run("Should work on typed and untyped slices", func(t *testing.T) {
		_, err := NonEmptySlice().Validate(ctx, rctx, []string{"a"})
		assert.NoError(t, err)
		_, err = NonEmptySlice().Validate(ctx, rctx, []any{})
		assert.Error(t, err)
	})

	t.Run("Should cap the item count", func(t *testing.T) {
		_, err := MaxItems(2).Validate(ctx, rctx, []int{1, 2, 3})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "maximum 2")
	})

	t.Run("Should report duplicate item positions", func(t *testing.T) {
		_, err := UniqueItems().Validate(ctx, rctx, []string{"a", "b", "a"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "items 0 and 2")
	})

	t.Run("Should apply an element validator in order", func(t *testing.T) {
		each := Each(NonEmpty())
		_, err := each.Validate(ctx, rctx, []any{"ok", ""})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "item 1")
	})
}

func TestExpr(t *testing.T) {
	ctx := context.Background()

	t.Run("Should validate with a CEL expression over value", func(t *testing.T) {
		positive, err := Expr("cel_positive", "value > 0")
		require.NoError(t, err)
		_, err = positive.Validate(ctx, rctx, int64(5))
		assert.NoError(t, err)
		_, err = positive.Validate(ctx, rctx, int64(-5))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not satisfied")
	})

	t.Run("Should reject an uncompilable expression at construction time", func(t *testing.T) {
		_, err := Expr("bad", "value >")
		require.Error(t, err)
		assert.True(t, core.IsCode(err, core.ErrCodeInvalidRuleParams))
	})

	t.Run("Should surface evaluation errors as validation failures", func(t *testing.T) {
		r, err := Expr("string_only", "value.startsWith('x')")
		require.NoError(t, err)
		_, err = r.Validate(ctx, rctx, int64(3))
		assert.Error(t, err)
	})
}

func TestStruct(t *testing.T) {
	ctx := context.Background()

	type record struct {
		Name string `validate:"required"`
		Age  int    `validate:"gte=0"`
	}

	t.Run("Should validate struct tags", func(t *testing.T) {
		_, err := Struct().Validate(ctx, rctx, record{Name: "ok", Age: 3})
		assert.NoError(t, err)
		_, err = Struct().Validate(ctx, rctx, record{Age: -1})
		assert.Error(t, err)
	})

	t.Run("Should fail non-struct values", func(t *testing.T) {
		_, err := Struct().Validate(ctx, rctx, "not a struct")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected a struct")
	})
}
