// Package cursor implements navigation over the visible leaves of a value set.
//
// Every value node is a cursor stop. A node is visible when none of its proper
// ancestors is folded, and the visible nodes in document order form the
// visible-leaf sequence the cursor walks. Positions are paths, so folding
// elsewhere in the tree never invalidates a position that stays visible.
package cursor

import (
	"iter"

	"github.com/dshills/jex/internal/value"
)

// DefaultIndent is the indentation width used when a Doc does not set one.
const DefaultIndent = 2

// Doc is a value set viewed through a fold set.
type Doc struct {
	Values []value.Value
	Folds  *FoldSet
	Indent int
}

func (d Doc) indent() int {
	if d.Indent <= 0 {
		return DefaultIndent
	}
	return d.Indent
}

func (d Doc) folded(p value.Path) bool {
	return d.Folds.Contains(p)
}

// open reports whether v at p shows its children.
func (d Doc) open(p value.Path, v value.Value) bool {
	return v.Foldable() && !d.folded(p)
}

// Empty reports whether the value set has no values.
func (d Doc) Empty() bool { return len(d.Values) == 0 }

// Visible reports whether p resolves and no proper ancestor of p is folded.
func (d Doc) Visible(p value.Path) bool {
	if _, ok := value.At(d.Values, p); !ok {
		return false
	}
	for i := 1; i < len(p); i++ {
		if d.folded(p[:i]) {
			return false
		}
	}
	return true
}

// First returns the first visible leaf.
func (d Doc) First() (value.Path, bool) {
	if d.Empty() {
		return nil, false
	}
	return value.Path{0}, true
}

// Last returns the last visible leaf.
func (d Doc) Last() (value.Path, bool) {
	if d.Empty() {
		return nil, false
	}
	return d.lastUnder(value.Path{len(d.Values) - 1}), true
}

// lastUnder returns the deepest last visible descendant of p, or p itself.
func (d Doc) lastUnder(p value.Path) value.Path {
	v, _ := value.At(d.Values, p)
	for d.open(p, v) {
		n := v.Len() - 1
		p = p.Child(n)
		v, _ = v.Child(n)
	}
	return p
}

// siblings returns the number of children of p's parent.
func (d Doc) siblings(p value.Path) int {
	if len(p) == 1 {
		return len(d.Values)
	}
	parent, _ := value.At(d.Values, p.Parent())
	return parent.Len()
}

// Next returns the visible leaf after p in document order. p must be visible.
func (d Doc) Next(p value.Path) (value.Path, bool) {
	v, ok := value.At(d.Values, p)
	if !ok {
		return nil, false
	}
	if d.open(p, v) {
		return p.Child(0), true
	}
	for q := p; len(q) > 0; q = q.Parent() {
		if q.Last()+1 < d.siblings(q) {
			next := q.Clone()
			next[len(next)-1]++
			return next, true
		}
	}
	return nil, false
}

// Prev returns the visible leaf before p in document order. p must be visible.
func (d Doc) Prev(p value.Path) (value.Path, bool) {
	if len(p) == 0 {
		return nil, false
	}
	if p.Last() == 0 {
		if len(p) == 1 {
			return nil, false
		}
		return p.Parent(), true
	}
	sib := p.Clone()
	sib[len(sib)-1]--
	return d.lastUnder(sib), true
}

// Leaves iterates the visible leaves from p onwards, p included.
func (d Doc) Leaves(from value.Path) iter.Seq[value.Path] {
	return func(yield func(value.Path) bool) {
		for p, ok := from, len(from) > 0; ok; p, ok = d.Next(p) {
			if !yield(p) {
				return
			}
		}
	}
}

// All iterates every visible leaf in document order.
func (d Doc) All() iter.Seq[value.Path] {
	first, _ := d.First()
	return d.Leaves(first)
}

// Relocate maps p to the position a cursor at p should take in d: p itself
// when visible, else its outermost folded ancestor, else the nearest
// ancestor that still resolves, else the last leaf.
func (d Doc) Relocate(p value.Path) (value.Path, bool) {
	if d.Empty() {
		return nil, false
	}
	for i := 1; i <= len(p); i++ {
		prefix := p[:i]
		if _, ok := value.At(d.Values, prefix); !ok {
			if i == 1 {
				return d.Last()
			}
			return p[:i-1].Clone(), true
		}
		if i < len(p) && d.folded(prefix) {
			return prefix.Clone(), true
		}
	}
	if len(p) == 0 {
		return d.First()
	}
	return p.Clone(), true
}
