package tag

import "sort"

// Set is the immutable collection of tag references an asset holds.
type Set struct {
	tags []*Tag
}

// NewSet copies the given tags into a set, dropping nils and duplicates.
func NewSet(tags ...*Tag) Set {
	seen := make(map[*Tag]bool, len(tags))
	out := make([]*Tag, 0, len(tags))
	for _, t := range tags {
		if t == nil || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return Set{tags: out}
}

// Has reports whether the exact tag is in the set.
func (s Set) Has(t *Tag) bool {
	for _, cur := range s.tags {
		if cur == t {
			return true
		}
	}
	return false
}

// HasUnder reports whether any tag in the set is the ancestor tag itself or
// one of its descendants. This backs ancestor-based filtering.
func (s Set) HasUnder(ancestor *Tag) bool {
	if ancestor == nil {
		return false
	}
	for _, cur := range s.tags {
		if cur == ancestor || ancestor.IsAncestorOf(cur) {
			return true
		}
	}
	return false
}

// Tags returns a copy of the set's members.
func (s Set) Tags() []*Tag {
	out := make([]*Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

// Paths returns the sorted tag paths, mainly for serialization and logs.
func (s Set) Paths() []string {
	out := make([]string, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, t.Path())
	}
	sort.Strings(out)
	return out
}

// Len returns the number of tags in the set.
func (s Set) Len() int { return len(s.tags) }
