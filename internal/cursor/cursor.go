package cursor

import (
	"errors"

	"github.com/dshills/jex/internal/value"
)

var (
	// ErrNotFoldable is returned when folding a scalar or an empty container.
	ErrNotFoldable = errors.New("not a foldable container")

	// ErrNoSuchPath is returned for a path that does not resolve.
	ErrNoSuchPath = errors.New("no value at path")

	// ErrHidden is returned when moving to a leaf hidden by a fold.
	ErrHidden = errors.New("value is hidden by a fold")
)

// LinePos addresses one rendered row: row Line of the leaf at Leaf.
type LinePos struct {
	Leaf value.Path
	Line int
}

// ComparePos orders positions in document order.
func ComparePos(a, b LinePos) int {
	if c := value.Compare(a.Leaf, b.Leaf); c != 0 {
		return c
	}
	switch {
	case a.Line < b.Line:
		return -1
	case a.Line > b.Line:
		return 1
	}
	return 0
}

func (d Doc) rowCount(p value.Path, width int) int {
	l, ok := d.Leaf(p)
	if !ok {
		return 1
	}
	return l.RowCount(width)
}

// NextLine returns the row after pos.
func (d Doc) NextLine(pos LinePos, width int) (LinePos, bool) {
	if pos.Line+1 < d.rowCount(pos.Leaf, width) {
		return LinePos{pos.Leaf, pos.Line + 1}, true
	}
	next, ok := d.Next(pos.Leaf)
	if !ok {
		return pos, false
	}
	return LinePos{next, 0}, true
}

// PrevLine returns the row before pos.
func (d Doc) PrevLine(pos LinePos, width int) (LinePos, bool) {
	if pos.Line > 0 {
		return LinePos{pos.Leaf, pos.Line - 1}, true
	}
	prev, ok := d.Prev(pos.Leaf)
	if !ok {
		return pos, false
	}
	return LinePos{prev, d.rowCount(prev, width) - 1}, true
}

// VisibleRow is one row of the viewport.
type VisibleRow struct {
	Pos    LinePos
	Row    Row
	Cursor bool
}

// Cursor is the navigation state of one view: its fold set, cursor path,
// scroll position and viewport size. An empty value set has no cursor and
// every move is a no-op.
type Cursor struct {
	doc    Doc
	path   value.Path
	top    LinePos
	width  int
	height int
}

// New returns a cursor on the first leaf of values with nothing folded.
func New(values []value.Value, width, height int) *Cursor {
	c := &Cursor{
		doc:    Doc{Values: values, Folds: &FoldSet{}},
		width:  width,
		height: height,
	}
	c.path, _ = c.doc.First()
	c.top = LinePos{Leaf: c.path}
	return c
}

// Doc returns the document the cursor walks.
func (c *Cursor) Doc() Doc { return c.doc }

// Values returns the value set.
func (c *Cursor) Values() []value.Value { return c.doc.Values }

// Folds returns the live fold set.
func (c *Cursor) Folds() *FoldSet { return c.doc.Folds }

// SetIndent changes the indentation width of rendered rows.
func (c *Cursor) SetIndent(n int) {
	c.doc.Indent = n
	c.normalize()
}

// Path returns the cursor path, or nil for an empty value set.
func (c *Cursor) Path() value.Path { return c.path.Clone() }

// Top returns the first row shown in the viewport.
func (c *Cursor) Top() LinePos { return LinePos{c.top.Leaf.Clone(), c.top.Line} }

// Size returns the viewport size.
func (c *Cursor) Size() (width, height int) { return c.width, c.height }

// Leaf returns the leaf under the cursor.
func (c *Cursor) Leaf() (Leaf, bool) {
	if c.path == nil {
		return Leaf{}, false
	}
	return c.doc.Leaf(c.path)
}

// Advance moves to the next visible leaf. It reports whether the cursor moved.
func (c *Cursor) Advance() bool {
	if c.path == nil {
		return false
	}
	next, ok := c.doc.Next(c.path)
	if !ok {
		return false
	}
	c.path = next
	c.scrollToCursor()
	return true
}

// Regress moves to the previous visible leaf. It reports whether the cursor moved.
func (c *Cursor) Regress() bool {
	if c.path == nil {
		return false
	}
	prev, ok := c.doc.Prev(c.path)
	if !ok {
		return false
	}
	c.path = prev
	c.scrollToCursor()
	return true
}

// Home moves to the first visible leaf.
func (c *Cursor) Home() {
	if first, ok := c.doc.First(); ok {
		c.path = first
		c.top = LinePos{Leaf: first}
	}
}

// End moves to the last visible leaf.
func (c *Cursor) End() {
	if last, ok := c.doc.Last(); ok {
		c.path = last
		c.scrollToCursor()
	}
}

// PageDown moves the cursor and the viewport down by one viewport height of rows.
func (c *Cursor) PageDown() {
	if c.path == nil {
		return
	}
	moved := 0
	for p := c.path; moved < c.page(); {
		next, ok := c.doc.Next(p)
		if !ok {
			break
		}
		moved += c.doc.rowCount(p, c.width)
		p = next
		c.path = next
	}
	for i := 0; i < moved; i++ {
		next, ok := c.doc.NextLine(c.top, c.width)
		if !ok {
			break
		}
		c.top = next
	}
	c.scrollToCursor()
}

// PageUp moves the cursor and the viewport up by one viewport height of rows.
func (c *Cursor) PageUp() {
	if c.path == nil {
		return
	}
	moved := 0
	for p := c.path; moved < c.page(); {
		prev, ok := c.doc.Prev(p)
		if !ok {
			break
		}
		moved += c.doc.rowCount(prev, c.width)
		p = prev
		c.path = prev
	}
	for i := 0; i < moved; i++ {
		prev, ok := c.doc.PrevLine(c.top, c.width)
		if !ok {
			break
		}
		c.top = prev
	}
	c.scrollToCursor()
}

func (c *Cursor) page() int {
	return max(c.height, 1)
}

// MoveTo places the cursor on a visible leaf.
func (c *Cursor) MoveTo(p value.Path) error {
	if _, ok := value.At(c.doc.Values, p); !ok {
		return ErrNoSuchPath
	}
	if !c.doc.Visible(p) {
		return ErrHidden
	}
	c.path = p.Clone()
	c.scrollToCursor()
	return nil
}

// ToggleFold folds or unfolds the container at p. A cursor hidden by the new
// fold moves to the folded container.
func (c *Cursor) ToggleFold(p value.Path) error {
	v, ok := value.At(c.doc.Values, p)
	if !ok {
		return ErrNoSuchPath
	}
	if !v.Foldable() {
		return ErrNotFoldable
	}
	c.doc.Folds.Toggle(p)
	c.normalize()
	return nil
}

// ToggleFoldAtCursor folds the container under the cursor, or the container
// holding the cursor when it rests on a scalar or an empty container. An
// unfolded container is folded, a folded one is opened.
func (c *Cursor) ToggleFoldAtCursor() error {
	if c.path == nil {
		return ErrNoSuchPath
	}
	v, _ := value.At(c.doc.Values, c.path)
	if v.Foldable() {
		return c.ToggleFold(c.path)
	}
	parent := c.path.Parent()
	if parent == nil {
		return ErrNotFoldable
	}
	return c.ToggleFold(parent)
}

// Resize changes the viewport size. The cursor stays on the same leaf.
func (c *Cursor) Resize(width, height int) {
	c.width, c.height = width, height
	c.normalize()
}

// SetValues replaces the value set, keeping folds and the cursor where they
// still resolve.
func (c *Cursor) SetValues(values []value.Value) {
	c.doc.Values = values
	c.doc.Folds.Prune(values)
	c.normalize()
}

// normalize restores the invariants after the document or geometry changed:
// the cursor is visible and the viewport shows it.
func (c *Cursor) normalize() {
	c.path, _ = c.doc.Relocate(c.path)
	if c.path == nil {
		c.top = LinePos{}
		return
	}
	top, ok := c.doc.Relocate(c.top.Leaf)
	if !ok {
		top = c.path
	}
	line := c.top.Line
	if !top.Equal(c.top.Leaf) {
		line = 0
	}
	c.top = LinePos{top, min(line, c.doc.rowCount(top, c.width)-1)}
	c.scrollToCursor()
}

// scrollToCursor moves the viewport the minimum distance that shows the
// cursor leaf, preferring its first row when it does not fit.
func (c *Cursor) scrollToCursor() {
	if c.path == nil {
		return
	}
	first := LinePos{Leaf: c.path}
	if ComparePos(first, c.top) < 0 {
		c.top = first
		return
	}
	rows := c.doc.rowCount(c.path, c.width)
	if rows >= c.page() {
		c.top = first
		return
	}
	// Earliest top that still shows the last row of the cursor leaf.
	pos := LinePos{c.path, rows - 1}
	for i := 1; i < c.page(); i++ {
		prev, ok := c.doc.PrevLine(pos, c.width)
		if !ok {
			break
		}
		pos = prev
	}
	if ComparePos(c.top, pos) < 0 {
		c.top = pos
	}
}

// Rows returns the rows shown in the viewport, top to bottom.
func (c *Cursor) Rows() []VisibleRow {
	if c.path == nil {
		return nil
	}
	out := make([]VisibleRow, 0, c.page())
	for p := c.top.Leaf; len(out) < c.page(); {
		l, ok := c.doc.Leaf(p)
		if !ok {
			break
		}
		rows := l.Rows(c.width)
		start := 0
		if p.Equal(c.top.Leaf) {
			start = c.top.Line
		}
		head := 0
		if p.Equal(c.path) {
			head = wrappedCount(l.Lines()[0], c.width)
		}
		for i := start; i < len(rows) && len(out) < c.page(); i++ {
			out = append(out, VisibleRow{
				Pos:    LinePos{p, i},
				Row:    rows[i],
				Cursor: i < head,
			})
		}
		next, ok := c.doc.Next(p)
		if !ok {
			break
		}
		p = next
	}
	return out
}
