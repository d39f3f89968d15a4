// Package tag implements the hierarchical categorization labels assets carry.
// Tags live in an explicit tree owned by a Registry: nodes hold parent
// indices, and every path question is answered by walking parent links.
package tag

import (
	"strings"
	"sync"

	"github.com/assetforge/assetforge/engine/core"
)

// Separator joins the segments of a hierarchical tag path.
const Separator = "::"

// Tag is one label in the hierarchy. Tags are created once at startup, are
// never destroyed, and are held by assets as references without ownership.
type Tag struct {
	reg    *Registry
	index  int
	parent int // -1 for roots
	name   string
	doc    string
}

// Registry owns the tag tree. It is safe for concurrent reads after the
// startup registration phase; registration itself is serialized.
type Registry struct {
	mu   sync.RWMutex
	tags []*Tag
}

// NewRegistry returns an empty tag tree.
func NewRegistry() *Registry {
	return &Registry{}
}

// Root registers a new top-level tag.
func (r *Registry) Root(name, doc string) (*Tag, error) {
	return r.add(-1, name, doc)
}

// Child registers a new tag nested under parent.
func (r *Registry) Child(parent *Tag, name, doc string) (*Tag, error) {
	if parent == nil || parent.reg != r {
		return nil, core.NewError(nil, core.ErrCodeInvalidDeclaration, map[string]any{
			"tag":    name,
			"reason": "parent tag belongs to a different registry",
		})
	}
	return r.add(parent.index, name, doc)
}

func (r *Registry) add(parent int, name, doc string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, Separator) {
		return nil, core.NewError(nil, core.ErrCodeInvalidDeclaration, map[string]any{
			"tag":    name,
			"reason": "tag names must be non-empty and must not contain the separator",
		})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tags {
		if t.parent == parent && t.name == name {
			return nil, core.NewError(nil, core.ErrCodeDuplicateTag, map[string]any{
				"tag":  name,
				"path": t.Path(),
			})
		}
	}
	t := &Tag{reg: r, index: len(r.tags), parent: parent, name: name, doc: doc}
	r.tags = append(r.tags, t)
	return t, nil
}

// Find returns the tag with the given full path, if registered.
func (r *Registry) Find(path string) (*Tag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tags {
		if t.Path() == path {
			return t, true
		}
	}
	return nil, false
}

// Len returns the number of registered tags.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tags)
}

func (t *Tag) Name() string { return t.name }
func (t *Tag) Doc() string  { return t.doc }

// Parent returns the enclosing tag, or nil for roots.
func (t *Tag) Parent() *Tag {
	if t.parent < 0 {
		return nil
	}
	return t.reg.tags[t.parent]
}

// Path walks parent links to the root and joins segment names with the
// separator.
func (t *Tag) Path() string {
	segments := []string{t.name}
	for cur := t.Parent(); cur != nil; cur = cur.Parent() {
		segments = append(segments, cur.name)
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, Separator)
}

// IsAncestorOf reports whether t is a strict ancestor of other. The check is
// segment-aware: CACHE::KEY is not an ancestor of CACHE::KEYX, and a tag is
// never its own ancestor.
func (t *Tag) IsAncestorOf(other *Tag) bool {
	if other == nil {
		return false
	}
	tp, op := t.Path(), other.Path()
	if len(tp) >= len(op) {
		return false
	}
	return strings.HasPrefix(op, tp+Separator)
}

func (t *Tag) String() string { return t.Path() }
