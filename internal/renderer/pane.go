package renderer

import (
	"strings"

	"github.com/dshills/jex/internal/renderer/core"
	"github.com/dshills/jex/internal/renderer/layout"
	"github.com/dshills/jex/internal/view"
)

func (r *Renderer) drawPane(rect core.ScreenRect, pane Pane) {
	fr := pane.Frame
	if fr == nil {
		r.box(rect, r.styles.border(pane.Focused), "", "")
		return
	}

	title := fr.Title()
	if fr.Query != "" && fr.Query != title {
		title += ": " + fr.Query
	}
	footer := ""
	if fr.HasValues() {
		footer = fr.View.CursorQuery()
	}
	r.box(rect, r.styles.border(pane.Focused), title, footer)

	inner := layout.Inner(rect)
	if inner.IsEmpty() {
		return
	}
	switch {
	case fr.Err != nil:
		r.drawLines(inner, wrap(fr.Err.Error(), inner.Width()), r.styles.Error)
	case fr.View == nil:
		r.drawLines(inner, []string{"(no input)"}, r.styles.Dim)
	default:
		r.drawRows(inner, fr.View, r.styles.cursorBackground(pane.Focused))
	}
}

func (r *Renderer) drawLines(rect core.ScreenRect, lines []string, style core.Style) {
	for i, line := range lines {
		if i >= rect.Height() {
			return
		}
		r.text(rect.Left, rect.Top+i, rect.Right, line, style)
	}
}

func (r *Renderer) drawRows(rect core.ScreenRect, v *view.JSONView, cursorBg core.Color) {
	rows := v.Rows()
	if len(rows) == 0 {
		r.drawLines(rect, []string{"(empty)"}, r.styles.Dim)
		return
	}
	for i, row := range rows {
		if i >= rect.Height() {
			return
		}
		y := rect.Top + i
		var bg *core.Color
		if row.Cursor {
			bg = &cursorBg
			r.backend.Fill(core.RectFromSize(y, rect.Left, 1, rect.Width()),
				core.NewStyledCell(' ', core.DefaultStyle().WithBackground(*bg)))
		}
		x := rect.Left
		for _, seg := range row.Row {
			style := r.styles.Segment(seg.Kind)
			if bg != nil {
				style = style.WithBackground(*bg)
			}
			x = r.text(x, y, rect.Right, seg.Text, style)
		}
	}
}

func (r *Renderer) drawTree(rect core.ScreenRect, entries []TreeEntry) {
	r.box(rect, r.styles.Border, "frames", "")
	inner := layout.Inner(rect)
	for i, e := range entries {
		if i >= inner.Height() {
			return
		}
		y := inner.Top + i
		x := r.text(inner.Left, y, inner.Right, marker(e), r.styles.Marker)
		style := core.DefaultStyle()
		if e.Left || e.Right {
			style = style.Bold()
		}
		r.text(x, y, inner.Right, strings.Repeat("  ", e.Depth)+e.Label, style)
	}
}

// marker is the two-column prefix showing which panes display an entry.
func marker(e TreeEntry) string {
	var b [2]byte
	b[0], b[1] = ' ', ' '
	if e.Left {
		b[0] = 'L'
	}
	if e.Right {
		b[1] = 'R'
	}
	return string(b[:]) + " "
}

// wrap splits s into lines of at most width cells.
func wrap(s string, width int) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if width <= 0 {
			out = append(out, line)
			continue
		}
		var (
			b strings.Builder
			w int
		)
		for _, c := range line {
			cw := core.RuneWidth(c)
			if w+cw > width && w > 0 {
				out = append(out, b.String())
				b.Reset()
				w = 0
			}
			b.WriteRune(c)
			w += cw
		}
		out = append(out, b.String())
	}
	return out
}
