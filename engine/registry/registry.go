// Package registry provides the hierarchical, dotted-path rule namespace.
// Registration happens once at startup and is serialized with a mutex;
// lookups are read-only and safe under concurrent access.
package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/assetforge/assetforge/engine/core"
	"github.com/assetforge/assetforge/engine/rule"
)

// Factory builds a configured rule from declarative parameters. Factories
// back parameterized entries (`STRING.matches`); parameterless entries are
// registered as pre-built singletons.
type Factory func(params map[string]any) (rule.Rule, error)

// Entry is one registered name: either a singleton rule or a factory.
type Entry struct {
	Path    string
	Rule    rule.Rule
	Factory Factory
}

// Registry maps dotted paths (`STRING.strip`, `NUMERIC.is_positive`) to rule
// factories and singletons. It is an explicitly owned object: callers create
// one with New or Bootstrap and pass it to whoever resolves rules.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

func normalizePath(path string) string {
	return strings.TrimSpace(path)
}

// Register adds a factory under path. Registering a duplicate path is a
// configuration error.
func (r *Registry) Register(path string, factory Factory) error {
	return r.add(Entry{Path: normalizePath(path), Factory: factory})
}

// RegisterRule adds a pre-built singleton rule under path.
func (r *Registry) RegisterRule(path string, rl rule.Rule) error {
	return r.add(Entry{Path: normalizePath(path), Rule: rl})
}

func (r *Registry) add(entry Entry) error {
	if entry.Path == "" || !strings.Contains(entry.Path, ".") {
		return core.NewError(nil, core.ErrCodeInvalidDeclaration, map[string]any{
			"path":       entry.Path,
			"suggestion": "rule paths are dotted, e.g. STRING.strip",
		})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[entry.Path]; exists {
		return core.NewError(nil, core.ErrCodeDuplicateRule, map[string]any{
			"path": entry.Path,
		})
	}
	r.entries[entry.Path] = entry
	return nil
}

// Lookup returns the entry registered under path.
func (r *Registry) Lookup(path string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[normalizePath(path)]
	return entry, ok
}

// Resolve returns a configured rule for path. Singleton entries ignore
// params; factory entries receive them.
func (r *Registry) Resolve(path string, params map[string]any) (rule.Rule, error) {
	entry, ok := r.Lookup(path)
	if !ok {
		return nil, core.NewError(nil, core.ErrCodeUnknownRule, map[string]any{
			"path": normalizePath(path),
		})
	}
	if entry.Rule != nil {
		return entry.Rule, nil
	}
	rl, err := entry.Factory(params)
	if err != nil {
		return nil, err
	}
	return rl, nil
}

// Paths returns every registered path, sorted.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for p := range r.entries {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Namespace returns the registered paths under a namespace prefix such as
// "STRING". The prefix match is segment-aware: "STRING" does not match
// "STRINGX.rule".
func (r *Registry) Namespace(prefix string) []string {
	prefix = normalizePath(prefix)
	if !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}
	var out []string
	for _, p := range r.Paths() {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
