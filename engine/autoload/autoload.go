// Package autoload discovers declarative asset-manifest files and builds
// their declarations through an asset factory.
package autoload

import (
	"context"

	"github.com/assetforge/assetforge/engine/asset"
	"github.com/assetforge/assetforge/engine/core"
	"github.com/assetforge/assetforge/pkg/logger"
)

// Loader orchestrates manifest discovery and asset construction.
type Loader struct {
	root       string
	config     *Config
	factory    *asset.Factory
	discoverer FileDiscoverer
}

// New builds a loader rooted at root declaring assets through factory.
func New(root string, config *Config, factory *asset.Factory) *Loader {
	if config == nil {
		config = NewConfig()
	}
	return &Loader{
		root:       root,
		config:     config,
		factory:    factory,
		discoverer: NewFileDiscoverer(root),
	}
}

// LoadResult summarizes one loading run.
type LoadResult struct {
	FilesProcessed int
	AssetsBuilt    int
	Errors         []LoadError
}

// LoadError ties a failed manifest to its error.
type LoadError struct {
	File  string
	Error error
}

// Load discovers and builds all manifests.
func (l *Loader) Load(ctx context.Context) error {
	result, err := l.LoadWithResult(ctx)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("autoload completed",
		"files_processed", result.FilesProcessed,
		"assets_built", result.AssetsBuilt,
		"errors", len(result.Errors))
	return nil
}

// LoadWithResult discovers and builds all manifests, returning detailed
// results. Strict mode aborts on the first bad manifest; lax mode logs and
// skips it.
func (l *Loader) LoadWithResult(ctx context.Context) (*LoadResult, error) {
	log := logger.FromContext(ctx)
	result := &LoadResult{Errors: make([]LoadError, 0)}
	if !l.config.Enabled {
		log.Info("autoload disabled, skipping")
		return result, nil
	}
	if err := l.config.Validate(); err != nil {
		return result, core.NewError(err, core.ErrCodeInvalidDeclaration, nil)
	}
	files, err := l.discoverer.Discover(l.config.Include, l.config.Exclude)
	if err != nil {
		return result, core.NewError(err, "AUTOLOAD_DISCOVERY_FAILED", nil)
	}
	log.Debug("discovered manifest files", "count", len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.FilesProcessed++
		built, err := l.loadManifest(file)
		if err != nil {
			result.Errors = append(result.Errors, LoadError{File: file, Error: err})
			if l.config.Strict {
				return result, core.NewError(err, "AUTOLOAD_FILE_FAILED", map[string]any{
					"file": file,
				})
			}
			log.Warn("skipping invalid manifest", "file", file, "error", err)
			continue
		}
		result.AssetsBuilt += built
	}
	return result, nil
}

// Discover returns the manifest files a Load call would process.
func (l *Loader) Discover(_ context.Context) ([]string, error) {
	return l.discoverer.Discover(l.config.Include, l.config.Exclude)
}

// Factory returns the asset factory declarations are built through.
func (l *Loader) Factory() *asset.Factory {
	return l.factory
}

func (l *Loader) loadManifest(path string) (int, error) {
	m, err := parseManifest(path)
	if err != nil {
		return 0, err
	}
	built := 0
	for i := range m.Assets {
		if err := build(l.factory, &m.Assets[i]); err != nil {
			return built, err
		}
		built++
	}
	return built, nil
}
