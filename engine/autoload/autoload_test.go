package autoload

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetforge/assetforge/engine/asset"
	"github.com/assetforge/assetforge/engine/core"
	"github.com/assetforge/assetforge/pkg/logger"
)

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newFactory(t *testing.T) *asset.Factory {
	t.Helper()
	logger.InitForTests()
	f, err := asset.NewFactory()
	require.NoError(t, err)
	return f
}

const validManifest = `assets:
  - name: cache_key
    kind: alias
    base: string
    description: normalized cache key
    caching: lru
    rules:
      - path: STRING.strip
      - path: STRING.lower
      - path: STRING.matches
        params:
          pattern: "^[a-z0-9_]+$"
      - path: STRING.max_len
        params:
          max: 200
  - name: log_level
    kind: enum
    base: string
    members:
      - name: info
        value: info
        metadata:
          severity: 1
      - name: error
        value: error
        metadata:
          severity: 3
`

func TestLoader_Load(t *testing.T) {
	t.Run("Should build assets from a valid manifest", func(t *testing.T) {
		tempDir := t.TempDir()
		writeManifest(t, tempDir, "assets/types.yaml", validManifest)
		factory := newFactory(t)
		loader := New(tempDir, &Config{
			Enabled: true,
			Strict:  true,
			Include: []string{"assets/*.yaml"},
		}, factory)

		result, err := loader.LoadWithResult(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, result.FilesProcessed)
		assert.Equal(t, 2, result.AssetsBuilt)

		built, ok := factory.Get("cache_key")
		require.True(t, ok)
		adv, ok := built.(asset.Advanced)
		require.True(t, ok)
		out, err := adv.Process(context.Background(), " MyKey ")
		require.NoError(t, err)
		assert.Equal(t, "mykey", out)

		levels, ok := factory.Get("log_level")
		require.True(t, ok)
		_, err = levels.(asset.Validated).Process(context.Background(), "fatal")
		assert.Error(t, err)
	})

	t.Run("Should build model declarations with per-field rules", func(t *testing.T) {
		tempDir := t.TempDir()
		writeManifest(t, tempDir, "assets/entry.yaml", `assets:
  - name: entry
    kind: model
    fields:
      - name: key
        required: true
        rules:
          - path: STRING.strip
          - path: STRING.non_empty
      - name: weight
        rules:
          - path: NUMERIC.is_positive
`)
		factory := newFactory(t)
		loader := New(tempDir, &Config{Enabled: true, Strict: true, Include: []string{"assets/*.yaml"}}, factory)
		require.NoError(t, loader.Load(context.Background()))

		built, ok := factory.Get("entry")
		require.True(t, ok)
		out, err := built.(asset.Validated).Process(context.Background(), map[string]any{"key": " k "})
		require.NoError(t, err)
		assert.Equal(t, "k", out.(map[string]any)["key"])
	})

	t.Run("Should abort on a bad manifest in strict mode", func(t *testing.T) {
		tempDir := t.TempDir()
		writeManifest(t, tempDir, "assets/bad.yaml", `assets:
  - name: broken
    kind: alias
    base: string
    rules:
      - path: STRING.missing
`)
		factory := newFactory(t)
		loader := New(tempDir, &Config{Enabled: true, Strict: true, Include: []string{"assets/*.yaml"}}, factory)

		result, err := loader.LoadWithResult(context.Background())
		require.Error(t, err)
		assert.Len(t, result.Errors, 1)
	})

	t.Run("Should skip bad manifests in lax mode", func(t *testing.T) {
		tempDir := t.TempDir()
		writeManifest(t, tempDir, "assets/bad.yaml", `assets:
  - name: broken
    kind: alias
    base: string
    rules:
      - path: STRING.missing
`)
		writeManifest(t, tempDir, "assets/good.yaml", validManifest)
		factory := newFactory(t)
		loader := New(tempDir, &Config{Enabled: true, Strict: false, Include: []string{"assets/*.yaml"}}, factory)

		result, err := loader.LoadWithResult(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, result.FilesProcessed)
		assert.Equal(t, 2, result.AssetsBuilt)
		assert.Len(t, result.Errors, 1)
	})

	t.Run("Should reject duplicate asset names across manifests", func(t *testing.T) {
		tempDir := t.TempDir()
		writeManifest(t, tempDir, "assets/a.yaml", "assets:\n  - name: dup\n    kind: primitive\n    base: string\n")
		writeManifest(t, tempDir, "assets/b.yaml", "assets:\n  - name: dup\n    kind: primitive\n    base: string\n")
		factory := newFactory(t)
		loader := New(tempDir, &Config{Enabled: true, Strict: true, Include: []string{"assets/*.yaml"}}, factory)

		_, err := loader.LoadWithResult(context.Background())
		require.Error(t, err)
		assert.True(t, core.IsCode(err, core.ErrCodeDuplicateAsset))
	})

	t.Run("Should resolve declared tags against the tag tree", func(t *testing.T) {
		tempDir := t.TempDir()
		writeManifest(t, tempDir, "assets/tagged.yaml", `assets:
  - name: cache_key
    kind: alias
    base: string
    tags: ["CACHE::KEY"]
`)
		factory := newFactory(t)
		root, err := factory.TagTree().Root("CACHE", "")
		require.NoError(t, err)
		_, err = factory.TagTree().Child(root, "KEY", "")
		require.NoError(t, err)
		loader := New(tempDir, &Config{Enabled: true, Strict: true, Include: []string{"assets/*.yaml"}}, factory)
		require.NoError(t, loader.Load(context.Background()))

		built, ok := factory.Get("cache_key")
		require.True(t, ok)
		assert.True(t, built.HasTagUnder(root))
	})

	t.Run("Should fail on unregistered tag paths", func(t *testing.T) {
		tempDir := t.TempDir()
		writeManifest(t, tempDir, "assets/tagged.yaml", `assets:
  - name: cache_key
    kind: alias
    base: string
    tags: ["CACHE::NOPE"]
`)
		factory := newFactory(t)
		loader := New(tempDir, &Config{Enabled: true, Strict: true, Include: []string{"assets/*.yaml"}}, factory)
		_, err := loader.LoadWithResult(context.Background())
		require.Error(t, err)
	})

	t.Run("Should do nothing when disabled", func(t *testing.T) {
		factory := newFactory(t)
		loader := New(t.TempDir(), &Config{Enabled: false}, factory)
		result, err := loader.LoadWithResult(context.Background())
		require.NoError(t, err)
		assert.Zero(t, result.FilesProcessed)
	})

	t.Run("Should require include patterns when enabled", func(t *testing.T) {
		factory := newFactory(t)
		loader := New(t.TempDir(), &Config{Enabled: true}, factory)
		_, err := loader.LoadWithResult(context.Background())
		assert.Error(t, err)
	})
}

func TestDiscoverer(t *testing.T) {
	t.Run("Should honor exclude patterns", func(t *testing.T) {
		tempDir := t.TempDir()
		writeManifest(t, tempDir, "assets/a.yaml", "assets: []\n")
		writeManifest(t, tempDir, "assets/skip.yaml", "assets: []\n")
		d := NewFileDiscoverer(tempDir)
		files, err := d.Discover([]string{"assets/*.yaml"}, []string{"assets/skip.yaml"})
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Contains(t, files[0], "a.yaml")
	})

	t.Run("Should reject absolute include patterns", func(t *testing.T) {
		d := NewFileDiscoverer(t.TempDir())
		_, err := d.Discover([]string{"/etc/*.yaml"}, nil)
		assert.Error(t, err)
	})

	t.Run("Should reject parent-directory patterns", func(t *testing.T) {
		d := NewFileDiscoverer(t.TempDir())
		_, err := d.Discover([]string{"../*.yaml"}, nil)
		assert.Error(t, err)
	})

	t.Run("Should skip default excludes like backup files", func(t *testing.T) {
		tempDir := t.TempDir()
		writeManifest(t, tempDir, "assets/a.yaml", "assets: []\n")
		writeManifest(t, tempDir, "assets/a.yaml.bak", "assets: []\n")
		d := NewFileDiscoverer(tempDir)
		files, err := d.Discover([]string{"assets/*"}, nil)
		require.NoError(t, err)
		require.Len(t, files, 1)
	})
}
