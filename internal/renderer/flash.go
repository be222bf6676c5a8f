package renderer

import (
	"github.com/dshills/jex/internal/renderer/core"
	"github.com/dshills/jex/internal/renderer/layout"
)

const (
	flashMinWidth = 24
	flashMargin   = 2
)

// FlashRect returns where a flash with text is drawn on screen.
func FlashRect(screen core.ScreenRect, text string) core.ScreenRect {
	maxWidth := screen.Width() - 2*flashMargin
	if maxWidth < flashMinWidth {
		maxWidth = screen.Width()
	}
	width := flashMinWidth
	for _, line := range wrap(text, 0) {
		width = max(width, core.StringWidth(line)+2)
	}
	width = min(width, maxWidth)

	maxHeight := max(screen.Height()-2*flashMargin, min(screen.Height(), 3))
	height := min(len(wrap(text, width-2))+2, maxHeight)

	top := screen.Top + (screen.Height()-height)/2
	left := screen.Left + (screen.Width()-width)/2
	return core.RectFromSize(top, left, height, width)
}

// FlashScrollMax returns the largest useful scroll offset of a flash.
func FlashScrollMax(screen core.ScreenRect, f *Flash) int {
	rect := FlashRect(screen, f.Text)
	inner := layout.Inner(rect)
	lines := wrap(f.Text, inner.Width())
	return max(len(lines)-inner.Height(), 0)
}

func (r *Renderer) drawFlash(screen core.ScreenRect, f *Flash) {
	rect := FlashRect(screen, f.Text)
	inner := layout.Inner(rect)
	lines := wrap(f.Text, inner.Width())
	f.Scroll = min(max(f.Scroll, 0), FlashScrollMax(screen, f))

	r.backend.Fill(rect, core.EmptyCell())
	style := r.styles.FocusBorder
	if f.Error {
		style = r.styles.Error.Bold()
	}
	footer := "Esc"
	if len(lines) > inner.Height() {
		footer = "Esc  ↑↓"
	}
	r.box(rect, style, f.Title, footer)

	text := core.DefaultStyle()
	if f.Error {
		text = r.styles.Error
	}
	r.drawLines(inner, lines[f.Scroll:], text)
}
