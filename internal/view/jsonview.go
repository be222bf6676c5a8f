package view

import (
	"github.com/dshills/jex/internal/cursor"
	"github.com/dshills/jex/internal/renderer/core"
	"github.com/dshills/jex/internal/search"
	"github.com/dshills/jex/internal/value"
)

// JSONView is the rendering state of one frame: its values, folds, cursor,
// scroll position and the rectangle it is drawn into.
type JSONView struct {
	cur  *cursor.Cursor
	rect core.ScreenRect
}

// NewJSONView returns a view of values sized to rect, the area inside the
// pane border, with nothing folded and the cursor on the first leaf.
func NewJSONView(values []value.Value, rect core.ScreenRect) *JSONView {
	return &JSONView{
		cur:  cursor.New(values, rect.Width(), rect.Height()),
		rect: rect,
	}
}

// Values returns the value set. Callers must not modify it.
func (v *JSONView) Values() []value.Value { return v.cur.Values() }

// Doc returns the value set together with its folds.
func (v *JSONView) Doc() cursor.Doc { return v.cur.Doc() }

// Folds returns the live fold set.
func (v *JSONView) Folds() *cursor.FoldSet { return v.cur.Folds() }

// Cursor returns the cursor path, nil when the value set is empty.
func (v *JSONView) Cursor() value.Path { return v.cur.Path() }

// Top returns the first rendered row of the viewport.
func (v *JSONView) Top() cursor.LinePos { return v.cur.Top() }

// Rect returns the area the view is drawn into.
func (v *JSONView) Rect() core.ScreenRect { return v.rect }

// Rows returns the rows currently in the viewport.
func (v *JSONView) Rows() []cursor.VisibleRow { return v.cur.Rows() }

// CursorQuery returns a jq path expression selecting the cursor leaf.
func (v *JSONView) CursorQuery() string {
	p := v.cur.Path()
	if p == nil {
		return ""
	}
	return value.Query(v.cur.Values(), p)
}

func (v *JSONView) AdvanceCursor() bool { return v.cur.Advance() }
func (v *JSONView) RegressCursor() bool { return v.cur.Regress() }
func (v *JSONView) PageDown()           { v.cur.PageDown() }
func (v *JSONView) PageUp()             { v.cur.PageUp() }
func (v *JSONView) Home()               { v.cur.Home() }
func (v *JSONView) End()                { v.cur.End() }

// ToggleFold folds or unfolds the container at p.
func (v *JSONView) ToggleFold(p value.Path) error { return v.cur.ToggleFold(p) }

// ToggleFoldAtCursor folds the container under or around the cursor.
func (v *JSONView) ToggleFoldAtCursor() error { return v.cur.ToggleFoldAtCursor() }

// Resize moves the view into rect.
func (v *JSONView) Resize(rect core.ScreenRect) {
	v.rect = rect
	v.cur.Resize(rect.Width(), rect.Height())
}

// SetIndent changes the indentation width.
func (v *JSONView) SetIndent(n int) { v.cur.SetIndent(n) }

// SetValues swaps in a new value set, keeping folds and cursor where they still resolve.
func (v *JSONView) SetValues(values []value.Value) { v.cur.SetValues(values) }

// Search repeats the active search from the cursor and moves to the match.
// It reports whether a match was found.
func (v *JSONView) Search(s *search.State, reverse bool) bool {
	p, ok := s.Next(v.cur.Doc(), v.cur.Path(), reverse)
	if !ok {
		return false
	}
	return v.cur.MoveTo(p) == nil
}
