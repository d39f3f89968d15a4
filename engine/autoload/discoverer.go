package autoload

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/assetforge/assetforge/engine/core"
)

// FileDiscoverer finds manifest files under a root.
type FileDiscoverer interface {
	Discover(includes, excludes []string) ([]string, error)
}

type fsDiscoverer struct {
	root string
}

// NewFileDiscoverer returns a filesystem-backed discoverer rooted at root.
func NewFileDiscoverer(root string) FileDiscoverer {
	return &fsDiscoverer{root: root}
}

// Discover finds all files matching include patterns and filters out exclude
// patterns. Results are deterministic (sorted).
func (d *fsDiscoverer) Discover(includes, excludes []string) ([]string, error) {
	if len(includes) == 0 {
		return []string{}, nil
	}
	discovered := make(map[string]bool)
	for _, pattern := range includes {
		// NOTE: Validate patterns early to block traversal or absolute path injections.
		if err := d.validatePattern(pattern); err != nil {
			return nil, err
		}
		fullPattern := filepath.Join(d.root, pattern)
		matches, err := doublestar.FilepathGlob(fullPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			rel, err := filepath.Rel(d.root, match)
			if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
				return nil, core.NewError(nil, "PATH_ESCAPE_ATTEMPT", map[string]any{
					"file": match,
					"root": d.root,
				})
			}
			discovered[match] = true
		}
	}
	files := make([]string, 0, len(discovered))
	for file := range discovered {
		files = append(files, file)
	}
	files = d.applyExcludes(files, excludes)
	sort.Strings(files)
	return files, nil
}

func (d *fsDiscoverer) validatePattern(pattern string) error {
	cleanPattern := filepath.Clean(pattern)
	if filepath.IsAbs(cleanPattern) {
		return fmt.Errorf("absolute include patterns not allowed: %s", pattern)
	}
	if slices.Contains(strings.Split(cleanPattern, string(filepath.Separator)), "..") {
		return fmt.Errorf("parent directory references not allowed: %s", pattern)
	}
	return nil
}

func (d *fsDiscoverer) applyExcludes(files, excludes []string) []string {
	patterns := make([]string, 0, len(DefaultExcludes)+len(excludes))
	patterns = append(patterns, DefaultExcludes...)
	patterns = append(patterns, excludes...)
	for i, pattern := range patterns {
		patterns[i] = filepath.ToSlash(pattern)
	}
	filtered := make([]string, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(d.root, file)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		excluded := false
		for _, pattern := range patterns {
			if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, file)
		}
	}
	return filtered
}
