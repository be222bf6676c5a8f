package cursor

import (
	"slices"

	"github.com/dshills/jex/internal/value"
)

// FoldSet is the set of container paths whose children are hidden.
// The zero value is an empty set ready to use.
type FoldSet struct {
	paths map[string]value.Path
}

// NewFoldSet returns a set holding the given paths.
func NewFoldSet(paths ...value.Path) *FoldSet {
	f := &FoldSet{}
	for _, p := range paths {
		f.Set(p, true)
	}
	return f
}

// Contains reports whether p is folded.
func (f *FoldSet) Contains(p value.Path) bool {
	if f == nil || f.paths == nil {
		return false
	}
	_, ok := f.paths[p.Key()]
	return ok
}

// Set adds or removes p.
func (f *FoldSet) Set(p value.Path, folded bool) {
	if !folded {
		if f.paths != nil {
			delete(f.paths, p.Key())
		}
		return
	}
	if f.paths == nil {
		f.paths = make(map[string]value.Path)
	}
	f.paths[p.Key()] = p.Clone()
}

// Toggle flips membership of p and reports whether p is now folded.
func (f *FoldSet) Toggle(p value.Path) bool {
	folded := !f.Contains(p)
	f.Set(p, folded)
	return folded
}

// Len returns the number of folded paths.
func (f *FoldSet) Len() int {
	if f == nil {
		return 0
	}
	return len(f.paths)
}

// Paths returns the folded paths in document order.
func (f *FoldSet) Paths() []value.Path {
	if f == nil {
		return nil
	}
	out := make([]value.Path, 0, len(f.paths))
	for _, p := range f.paths {
		out = append(out, p.Clone())
	}
	slices.SortFunc(out, value.Compare)
	return out
}

// Clone returns an independent copy.
func (f *FoldSet) Clone() *FoldSet {
	c := &FoldSet{}
	if f == nil {
		return c
	}
	for _, p := range f.paths {
		c.Set(p, true)
	}
	return c
}

// Equal reports whether both sets hold the same paths.
func (f *FoldSet) Equal(o *FoldSet) bool {
	if f.Len() != o.Len() {
		return false
	}
	if f == nil {
		return true
	}
	for k := range f.paths {
		if _, ok := o.paths[k]; !ok {
			return false
		}
	}
	return true
}

// Prune drops every path that no longer resolves to a foldable container in values.
func (f *FoldSet) Prune(values []value.Value) {
	if f == nil {
		return
	}
	for k, p := range f.paths {
		if v, ok := value.At(values, p); !ok || !v.Foldable() {
			delete(f.paths, k)
		}
	}
}
