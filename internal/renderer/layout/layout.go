// Package layout splits the terminal into panes.
package layout

import (
	"github.com/dshills/jex/internal/renderer/core"
)

const (
	// QueryHeight is the number of rows of the query bar, border included.
	QueryHeight = 3

	// MaxTreeWidth caps the width of the frame tree pane.
	MaxTreeWidth = 32
)

// Layout is the partition of the screen for one frame.
type Layout struct {
	Left  core.ScreenRect
	Right core.ScreenRect
	Query core.ScreenRect
	Tree  *core.ScreenRect // nil when the tree pane is hidden
}

// Compute partitions total. The query bar takes the bottom rows, the tree
// pane (when shown) takes a quarter of the width on the left, and the
// remaining width is split evenly between the two value panes, the right
// pane taking the odd column.
func Compute(total core.ScreenRect, showTree bool) Layout {
	queryRows := min(QueryHeight, total.Height())
	panes := total
	panes.Bottom = total.Bottom - queryRows

	var l Layout
	l.Query = core.ScreenRect{
		Top:    panes.Bottom,
		Left:   total.Left,
		Bottom: total.Bottom,
		Right:  total.Right,
	}

	if showTree {
		w := min(total.Width()/4, MaxTreeWidth)
		tree := panes
		tree.Right = panes.Left + w
		l.Tree = &tree
		panes.Left = tree.Right
	}

	half := panes.Width() / 2
	l.Left = panes
	l.Left.Right = panes.Left + half
	l.Right = panes
	l.Right.Left = l.Left.Right
	return l
}

// Inner returns the area inside a pane's one-cell border.
func Inner(r core.ScreenRect) core.ScreenRect {
	return r.Inset(1, 1, 1, 1)
}
