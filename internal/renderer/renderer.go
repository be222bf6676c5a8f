package renderer

import (
	"sync"
	"unicode/utf8"

	"github.com/dshills/jex/internal/renderer/backend"
	"github.com/dshills/jex/internal/renderer/core"
	"github.com/dshills/jex/internal/renderer/layout"
	"github.com/dshills/jex/internal/view"
)

// Pane is a value pane and the frame shown in it.
type Pane struct {
	Frame   *view.Frame // nil draws an empty pane
	Focused bool
}

// TreeEntry is one line of the frame tree pane.
type TreeEntry struct {
	Label string
	Depth int
	Left  bool // shown in the left pane
	Right bool // shown in the right pane
}

// Flash is a dismissible message box drawn over everything else.
type Flash struct {
	Title string
	Text  string
	Error bool

	// Scroll is the index of the first line shown. Draw clamps it to the
	// wrapped text.
	Scroll int
}

// Scene is everything drawn in one frame.
type Scene struct {
	Layout layout.Layout
	Left   Pane
	Right  Pane
	Tree   []TreeEntry
	Query  string
	Flash  *Flash
}

// Renderer draws scenes onto a backend.
type Renderer struct {
	mu sync.Mutex

	backend backend.Backend
	styles  Styles

	frameCount uint64
}

// New creates a renderer drawing onto b.
func New(b backend.Backend, styles Styles) *Renderer {
	return &Renderer{backend: b, styles: styles}
}

// SetStyles replaces the styles used by later draws.
func (r *Renderer) SetStyles(styles Styles) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.styles = styles
}

// Screen returns the full terminal area.
func (r *Renderer) Screen() core.ScreenRect {
	w, h := r.backend.Size()
	return core.RectFromSize(0, 0, h, w)
}

// FrameCount returns the number of scenes drawn.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// Draw renders scene and shows it.
func (r *Renderer) Draw(scene *Scene) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.Clear()
	if scene.Layout.Tree != nil {
		r.drawTree(*scene.Layout.Tree, scene.Tree)
	}
	r.drawPane(scene.Layout.Left, scene.Left)
	r.drawPane(scene.Layout.Right, scene.Right)
	r.drawQuery(scene.Layout.Query, scene.Query)
	if scene.Flash != nil {
		r.drawFlash(r.Screen(), scene.Flash)
	}
	r.backend.HideCursor()
	r.backend.Show()
	r.frameCount++
}

func (r *Renderer) drawQuery(rect core.ScreenRect, query string) {
	r.box(rect, r.styles.Border, "query", "")
	inner := layout.Inner(rect)
	if inner.IsEmpty() {
		return
	}
	// Long queries keep their tail visible.
	text := query
	for core.StringWidth(text) > inner.Width() {
		_, size := utf8.DecodeRuneInString(text)
		text = text[size:]
	}
	r.text(inner.Left, inner.Top, inner.Right, text, core.DefaultStyle())
}

// text draws s from x up to limit on row y.
func (r *Renderer) text(x, y, limit int, s string, style core.Style) int {
	return backend.DrawString(r.backend, x, y, limit, s, style)
}

// box draws a one-cell border around rect with a title on the top edge and
// a footer on the bottom edge.
func (r *Renderer) box(rect core.ScreenRect, style core.Style, title, footer string) {
	if rect.Width() < 2 || rect.Height() < 2 {
		return
	}
	top, bottom := rect.Top, rect.Bottom-1
	left, right := rect.Left, rect.Right-1

	for x := left + 1; x < right; x++ {
		r.backend.SetCell(x, top, core.NewStyledCell('─', style))
		r.backend.SetCell(x, bottom, core.NewStyledCell('─', style))
	}
	for y := top + 1; y < bottom; y++ {
		r.backend.SetCell(left, y, core.NewStyledCell('│', style))
		r.backend.SetCell(right, y, core.NewStyledCell('│', style))
	}
	r.backend.SetCell(left, top, core.NewStyledCell('┌', style))
	r.backend.SetCell(right, top, core.NewStyledCell('┐', style))
	r.backend.SetCell(left, bottom, core.NewStyledCell('└', style))
	r.backend.SetCell(right, bottom, core.NewStyledCell('┘', style))

	if title != "" {
		r.label(left+1, top, right, title, style.Merge(r.styles.Title))
	}
	if footer != "" {
		r.label(left+1, bottom, right, footer, style)
	}
}

// label draws " s " on a border row, truncated to fit before limit.
func (r *Renderer) label(x, y, limit int, s string, style core.Style) {
	room := limit - x - 2
	if room < 1 {
		return
	}
	r.text(x, y, limit, " "+core.Truncate(s, room, "…")+" ", style)
}
