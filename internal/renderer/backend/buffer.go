package backend

import (
	"strings"

	"github.com/dshills/jex/internal/renderer/core"
)

// continuation marks the right half of a wide rune.
var continuation = core.Cell{Style: core.DefaultStyle()}

// ScreenBuffer provides double-buffered rendering with change tracking.
// Drawing goes to the back buffer; ComputeDiff reports the cells that
// differ from what was last synced.
type ScreenBuffer struct {
	width, height int
	front         [][]core.Cell
	back          [][]core.Cell
	fullRedraw    bool
}

// NewScreenBuffer creates a screen buffer with the given dimensions.
func NewScreenBuffer(width, height int) *ScreenBuffer {
	sb := &ScreenBuffer{width: width, height: height}
	sb.allocate()
	return sb
}

func (sb *ScreenBuffer) allocate() {
	sb.front = makeCells(sb.width, sb.height)
	sb.back = makeCells(sb.width, sb.height)
	sb.fullRedraw = true
}

func makeCells(width, height int) [][]core.Cell {
	cells := make([][]core.Cell, height)
	for y := range cells {
		cells[y] = make([]core.Cell, width)
		for x := range cells[y] {
			cells[y][x] = core.EmptyCell()
		}
	}
	return cells
}

// Resize resizes the buffer. Content is discarded and the next diff
// covers every cell.
func (sb *ScreenBuffer) Resize(width, height int) {
	if width == sb.width && height == sb.height {
		return
	}
	sb.width = width
	sb.height = height
	sb.allocate()
}

// Size returns the buffer dimensions.
func (sb *ScreenBuffer) Size() (width, height int) {
	return sb.width, sb.height
}

// SetCell sets a cell in the back buffer.
func (sb *ScreenBuffer) SetCell(x, y int, cell core.Cell) {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return
	}
	sb.back[y][x] = cell
}

// GetCell returns a cell from the back buffer.
func (sb *ScreenBuffer) GetCell(x, y int) core.Cell {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return core.EmptyCell()
	}
	return sb.back[y][x]
}

// Fill fills a rectangle with the given cell.
func (sb *ScreenBuffer) Fill(rect core.ScreenRect, cell core.Cell) {
	for y := max(rect.Top, 0); y < rect.Bottom && y < sb.height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < sb.width; x++ {
			sb.back[y][x] = cell
		}
	}
}

// Clear clears the back buffer with empty cells.
func (sb *ScreenBuffer) Clear() {
	sb.Fill(core.RectFromSize(0, 0, sb.height, sb.width), core.EmptyCell())
}

// SetString writes s with style starting at (x, y), clipped at limit
// (exclusive column). It returns the column after the last cell written.
func (sb *ScreenBuffer) SetString(x, y, limit int, s string, style core.Style) int {
	return DrawString(sb, x, y, limit, s, style)
}

// DrawString writes s on any backend, clipped at limit, and returns the
// column after the last cell written. A wide rune that does not fit is
// replaced by a blank.
func DrawString(b interface{ SetCell(x, y int, c core.Cell) }, x, y, limit int, s string, style core.Style) int {
	col := x
	for _, r := range s {
		if col >= limit {
			break
		}
		width := core.RuneWidth(r)
		if width == 0 {
			continue
		}
		if col+width > limit {
			b.SetCell(col, y, core.NewStyledCell(' ', style))
			col++
			break
		}
		b.SetCell(col, y, core.Cell{Rune: r, Width: width, Style: style})
		col++
		for ; width > 1; width-- {
			c := continuation
			c.Style = style
			b.SetCell(col, y, c)
			col++
		}
	}
	return col
}

// Row returns the text of row y with trailing blanks removed.
func (sb *ScreenBuffer) Row(y int) string {
	if y < 0 || y >= sb.height {
		return ""
	}
	var b strings.Builder
	for _, c := range sb.back[y] {
		if c.Width > 0 {
			b.WriteRune(c.Rune)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// DiffChange represents a cell change for synchronization.
type DiffChange struct {
	X, Y int
	Cell core.Cell
}

// ComputeDiff returns the changes needed to update the display.
func (sb *ScreenBuffer) ComputeDiff() []DiffChange {
	var changes []DiffChange
	for y := 0; y < sb.height; y++ {
		for x := 0; x < sb.width; x++ {
			if sb.fullRedraw || !sb.back[y][x].Equals(sb.front[y][x]) {
				changes = append(changes, DiffChange{X: x, Y: y, Cell: sb.back[y][x]})
			}
		}
	}
	return changes
}

// Sync copies the back buffer to the front buffer.
func (sb *ScreenBuffer) Sync() {
	for y := range sb.back {
		copy(sb.front[y], sb.back[y])
	}
	sb.fullRedraw = false
}

// MarkFullRedraw forces a complete redraw on next sync.
func (sb *ScreenBuffer) MarkFullRedraw() {
	sb.fullRedraw = true
}

// BufferedBackend wraps a Backend with double-buffered rendering so only
// changed cells reach the terminal.
type BufferedBackend struct {
	backend Backend
	buffer  *ScreenBuffer
}

// NewBufferedBackend creates a buffered wrapper around a backend.
func NewBufferedBackend(backend Backend) *BufferedBackend {
	width, height := backend.Size()
	return &BufferedBackend{
		backend: backend,
		buffer:  NewScreenBuffer(width, height),
	}
}

func (b *BufferedBackend) Init() error {
	if err := b.backend.Init(); err != nil {
		return err
	}
	b.buffer.Resize(b.backend.Size())
	b.buffer.MarkFullRedraw()
	return nil
}

func (b *BufferedBackend) Shutdown() {
	b.backend.Shutdown()
}

func (b *BufferedBackend) Size() (int, int) {
	return b.buffer.Size()
}

func (b *BufferedBackend) SetCell(x, y int, cell core.Cell) {
	b.buffer.SetCell(x, y, cell)
}

func (b *BufferedBackend) GetCell(x, y int) core.Cell {
	return b.buffer.GetCell(x, y)
}

func (b *BufferedBackend) Fill(rect core.ScreenRect, cell core.Cell) {
	b.buffer.Fill(rect, cell)
}

func (b *BufferedBackend) Clear() {
	b.buffer.Clear()
}

// Show computes the diff and applies only changed cells to the backend.
func (b *BufferedBackend) Show() {
	for _, ch := range b.buffer.ComputeDiff() {
		b.backend.SetCell(ch.X, ch.Y, ch.Cell)
	}
	b.buffer.Sync()
	b.backend.Show()
}

func (b *BufferedBackend) ShowCursor(x, y int) {
	b.backend.ShowCursor(x, y)
}

func (b *BufferedBackend) HideCursor() {
	b.backend.HideCursor()
}

// PollEvent forwards to the wrapped backend and resizes the buffer on
// resize events.
func (b *BufferedBackend) PollEvent() Event {
	ev := b.backend.PollEvent()
	if ev.Type == EventResize {
		b.buffer.Resize(ev.Width, ev.Height)
		b.buffer.MarkFullRedraw()
	}
	return ev
}

func (b *BufferedBackend) PostEvent(event Event) {
	b.backend.PostEvent(event)
}

func (b *BufferedBackend) Suspend() error {
	return b.backend.Suspend()
}

// Resume restores the terminal and repaints everything on the next Show.
func (b *BufferedBackend) Resume() error {
	err := b.backend.Resume()
	b.buffer.MarkFullRedraw()
	return err
}
