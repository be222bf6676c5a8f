package view

import (
	"fmt"
	"iter"
	"slices"

	"github.com/dshills/jex/internal/renderer/core"
	"github.com/dshills/jex/internal/value"
)

// FrameIndex addresses a frame by position: the tree it belongs to and the
// child indices from that tree's root.
type FrameIndex struct {
	Tree int
	Path []int
}

// Root returns the index of the root of tree.
func Root(tree int) FrameIndex { return FrameIndex{Tree: tree} }

// Child returns the index of the i-th child.
func (i FrameIndex) Child(n int) FrameIndex {
	return FrameIndex{Tree: i.Tree, Path: append(slices.Clip(i.Path), n)}
}

// Parent returns the index of the parent frame.
func (i FrameIndex) Parent() (FrameIndex, bool) {
	if len(i.Path) == 0 {
		return FrameIndex{}, false
	}
	return FrameIndex{Tree: i.Tree, Path: slices.Clone(i.Path[:len(i.Path)-1])}, true
}

// Equal reports whether both indices address the same position.
func (i FrameIndex) Equal(o FrameIndex) bool {
	return i.Tree == o.Tree && slices.Equal(i.Path, o.Path)
}

// Depth is the number of ancestors of the frame.
func (i FrameIndex) Depth() int { return len(i.Path) }

func (i FrameIndex) String() string {
	return fmt.Sprintf("%d%s", i.Tree, value.Path(i.Path))
}

// Forest is the set of frame trees of a session.
type Forest struct {
	Trees []*Frame
}

// AddTree appends a root frame and returns its index.
func (f *Forest) AddTree(root *Frame) FrameIndex {
	f.Trees = append(f.Trees, root)
	return Root(len(f.Trees) - 1)
}

// Index resolves idx.
func (f *Forest) Index(idx FrameIndex) (*Frame, error) {
	if idx.Tree < 0 || idx.Tree >= len(f.Trees) {
		return nil, fmt.Errorf("%w: %v", ErrFrameNotFound, idx)
	}
	fr := f.Trees[idx.Tree]
	for _, i := range idx.Path {
		if i < 0 || i >= len(fr.Children) {
			return nil, fmt.Errorf("%w: %v", ErrFrameNotFound, idx)
		}
		fr = fr.Children[i]
	}
	return fr, nil
}

// PushChild derives a new child of the frame at idx and returns its index.
func (f *Forest) PushChild(idx FrameIndex, query string, rect core.ScreenRect) (FrameIndex, error) {
	parent, err := f.Index(idx)
	if err != nil {
		return FrameIndex{}, err
	}
	parent.Children = append(parent.Children, Derive(parent, query, rect))
	return idx.Child(len(parent.Children) - 1), nil
}

// PushTrivialChild adds an identity child of the frame at idx.
func (f *Forest) PushTrivialChild(idx FrameIndex, rect core.ScreenRect) (FrameIndex, error) {
	return f.PushChild(idx, ".", rect)
}

// ReRoot makes the frame at idx the only tree, discarding everything outside
// its subtree. The frame's query is cleared since it has no parent any more.
func (f *Forest) ReRoot(idx FrameIndex) error {
	fr, err := f.Index(idx)
	if err != nil {
		return err
	}
	fr.Query = ""
	f.Trees = []*Frame{fr}
	return nil
}

// Recompute re-derives the frame at idx from its parent with its current
// query, then every descendant in turn. Root frames keep their values and
// only their descendants are re-derived.
func (f *Forest) Recompute(idx FrameIndex, rect core.ScreenRect) error {
	fr, err := f.Index(idx)
	if err != nil {
		return err
	}
	if pidx, ok := idx.Parent(); ok {
		parent, err := f.Index(pidx)
		if err != nil {
			return err
		}
		fr.View, fr.Err = derive(parent, fr.Query, rect)
	}
	f.recomputeChildren(fr, false)
	return nil
}

// Reload replaces the values of the root of tree and re-derives its
// descendants. Folds and cursors are kept where they still resolve.
func (f *Forest) Reload(tree int, values []value.Value) error {
	root, err := f.Index(Root(tree))
	if err != nil {
		return err
	}
	if root.View == nil {
		root.View = NewJSONView(values, core.ScreenRect{})
	} else {
		root.View.SetValues(values)
	}
	root.Err = nil
	f.recomputeChildren(root, true)
	return nil
}

func (f *Forest) recomputeChildren(parent *Frame, keep bool) {
	for _, child := range parent.Children {
		old := child.View
		child.View, child.Err = derive(parent, child.Query, child.rect())
		if keep && old != nil && child.View != nil {
			old.SetValues(child.View.Values())
			child.View = old
		}
		f.recomputeChildren(child, keep)
	}
}

// All iterates every frame in pre-order: each tree root, then its
// descendants depth first.
func (f *Forest) All() iter.Seq2[FrameIndex, *Frame] {
	return func(yield func(FrameIndex, *Frame) bool) {
		for t, root := range f.Trees {
			if !walk(Root(t), root, yield) {
				return
			}
		}
	}
}

func walk(idx FrameIndex, fr *Frame, yield func(FrameIndex, *Frame) bool) bool {
	if !yield(idx, fr) {
		return false
	}
	for i, c := range fr.Children {
		if !walk(idx.Child(i), c, yield) {
			return false
		}
	}
	return true
}

// Len returns the number of frames.
func (f *Forest) Len() int {
	n := 0
	for range f.All() {
		n++
	}
	return n
}

// Next returns the frame after idx in pre-order.
func (f *Forest) Next(idx FrameIndex) (FrameIndex, bool) {
	found := false
	for i := range f.All() {
		if found {
			return i, true
		}
		found = i.Equal(idx)
	}
	return FrameIndex{}, false
}

// Prev returns the frame before idx in pre-order.
func (f *Forest) Prev(idx FrameIndex) (FrameIndex, bool) {
	var (
		prev FrameIndex
		have bool
	)
	for i := range f.All() {
		if i.Equal(idx) {
			return prev, have
		}
		prev, have = i, true
	}
	return FrameIndex{}, false
}

// Find returns the index of fr.
func (f *Forest) Find(fr *Frame) (FrameIndex, bool) {
	for i, x := range f.All() {
		if x == fr {
			return i, true
		}
	}
	return FrameIndex{}, false
}
