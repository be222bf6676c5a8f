package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/jex/internal/renderer/core"
)

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cell := core.NewStyledCell('X', core.DefaultStyle().WithForeground(core.ColorFromRGB(255, 0, 0)))
	b.SetCell(10, 5, cell)

	if got := b.GetCell(10, 5); !got.Equals(cell) {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)
	if empty := b.GetCell(-1, 0); !empty.Equals(core.EmptyCell()) {
		t.Error("out of bounds should return empty cell")
	}
}

func TestNullBackendFillAndRow(t *testing.T) {
	b := NewNullBackend(20, 5)
	b.Fill(core.NewScreenRect(1, 2, 3, 6), core.NewStyledCell('.', core.DefaultStyle()))

	if got := b.Row(1); got != "  ...." {
		t.Errorf("Row(1) = %q", got)
	}
	if got := b.Row(0); got != "" {
		t.Errorf("Row(0) = %q", got)
	}

	b.Clear()
	if got := b.Row(1); got != "" {
		t.Errorf("Row(1) after Clear = %q", got)
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(80, 24)

	b.PostEvent(KeyEvent(KeyEnter, ModNone))
	b.PostEvent(Event{Type: EventInterrupt, Payload: "reload"})

	if got := b.PollEvent(); got.Type != EventKey || got.Key != KeyEnter {
		t.Errorf("expected enter key event, got %+v", got)
	}
	if got := b.PollEvent(); got.Type != EventInterrupt || got.Payload != "reload" {
		t.Errorf("expected interrupt, got %+v", got)
	}
	if got := b.PollEvent(); got.Type != EventClosed {
		t.Errorf("empty queue should report EventClosed, got %+v", got)
	}
}

func TestNullBackendResize(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Resize(100, 40)

	if w, h := b.Size(); w != 100 || h != 40 {
		t.Errorf("expected size (100, 40), got (%d, %d)", w, h)
	}
	if ev := b.PollEvent(); ev.Type != EventResize || ev.Width != 100 || ev.Height != 40 {
		t.Errorf("expected resize event, got %+v", ev)
	}
}

func TestNullBackendSuspend(t *testing.T) {
	b := NewNullBackend(10, 10)
	_ = b.Suspend()
	if !b.Suspended() {
		t.Error("should be suspended")
	}
	_ = b.Resume()
	if b.Suspended() {
		t.Error("should be resumed")
	}
}

func TestKeyNames(t *testing.T) {
	for k, name := range keyNames {
		if got := KeyFromName(name); got != k {
			t.Errorf("KeyFromName(%q) = %v, want %v", name, got, k)
		}
		if k.String() != name {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), name)
		}
	}
	if KeyFromName("pgdn") != KeyPageDown {
		t.Error("lookup should ignore case")
	}
	if KeyFromName("nope") != KeyNone {
		t.Error("unknown name should be KeyNone")
	}
}

func TestModMaskHas(t *testing.T) {
	mod := ModShift | ModCtrl
	if !mod.Has(ModShift) || !mod.Has(ModCtrl) {
		t.Error("should have shift and ctrl")
	}
	if mod.Has(ModAlt) {
		t.Error("should not have alt")
	}
}

func TestScreenBufferDiff(t *testing.T) {
	sb := NewScreenBuffer(10, 2)

	if n := len(sb.ComputeDiff()); n != 20 {
		t.Fatalf("first diff = %d cells, want a full redraw of 20", n)
	}
	sb.Sync()
	if n := len(sb.ComputeDiff()); n != 0 {
		t.Fatalf("diff after sync = %d, want 0", n)
	}

	sb.SetString(1, 1, 10, "ab", core.DefaultStyle())
	changes := sb.ComputeDiff()
	if len(changes) != 2 || changes[0].X != 1 || changes[0].Y != 1 || changes[0].Cell.Rune != 'a' {
		t.Errorf("changes = %+v", changes)
	}

	// Redrawing identical content is not a change.
	sb.Sync()
	sb.SetString(1, 1, 10, "ab", core.DefaultStyle())
	if n := len(sb.ComputeDiff()); n != 0 {
		t.Errorf("identical redraw produced %d changes", n)
	}
}

func TestDrawStringClipsWideRunes(t *testing.T) {
	sb := NewScreenBuffer(10, 1)

	end := sb.SetString(0, 0, 10, "a世b", core.DefaultStyle())
	if end != 4 {
		t.Errorf("end = %d, want 4", end)
	}
	if got := sb.Row(0); got != "a世b" {
		t.Errorf("Row = %q", got)
	}

	sb.Clear()
	end = sb.SetString(0, 0, 2, "a世", core.DefaultStyle())
	if end != 2 || sb.Row(0) != "a" {
		t.Errorf("clipped end = %d row = %q", end, sb.Row(0))
	}
}

func TestBufferedBackendShow(t *testing.T) {
	null := NewNullBackend(10, 3)
	b := NewBufferedBackend(null)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}

	DrawString(b, 0, 1, 10, "hello", core.DefaultStyle())
	if null.Row(1) != "" {
		t.Error("cells reached the backend before Show")
	}
	b.Show()
	if got := null.Row(1); got != "hello" {
		t.Errorf("backend row = %q", got)
	}

	null.Resize(20, 4)
	if ev := b.PollEvent(); ev.Type != EventResize {
		t.Fatalf("event = %+v", ev)
	}
	if w, h := b.Size(); w != 20 || h != 4 {
		t.Errorf("buffer size = %dx%d", w, h)
	}
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	term := NewTerminalWithScreen(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(term.Shutdown)
	return term, sim
}

// next skips the resize events a screen may report on start.
func next(term *Terminal) Event {
	for {
		ev := term.PollEvent()
		if ev.Type != EventResize && ev.Type != EventNone {
			return ev
		}
	}
}

func TestTerminalKeyConversion(t *testing.T) {
	term, sim := newSimTerminal(t)

	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want Event
	}{
		{"rune", tcell.KeyRune, 'j', tcell.ModNone, RuneEvent('j', ModNone)},
		{"escape", tcell.KeyEscape, 0, tcell.ModNone, KeyEvent(KeyEscape, ModNone)},
		{"tab", tcell.KeyTab, 0, tcell.ModNone, KeyEvent(KeyTab, ModNone)},
		{"pgdn", tcell.KeyPgDn, 0, tcell.ModNone, KeyEvent(KeyPageDown, ModNone)},
		{"f1", tcell.KeyF1, 0, tcell.ModNone, KeyEvent(KeyF1, ModNone)},
		{"ctrl-c", tcell.KeyRune, 'c', tcell.ModCtrl, RuneEvent('c', ModCtrl)},
	}
	for _, tt := range tests {
		sim.InjectKey(tt.key, tt.r, tt.mod)
		got := next(term)
		if got.Type != tt.want.Type || got.Key != tt.want.Key || got.Mod != tt.want.Mod ||
			(tt.want.Key == KeyRune && got.Rune != tt.want.Rune) {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestTerminalInterrupt(t *testing.T) {
	term, _ := newSimTerminal(t)

	term.PostEvent(Event{Type: EventInterrupt, Payload: 42})
	if ev := next(term); ev.Type != EventInterrupt || ev.Payload != 42 {
		t.Errorf("event = %+v", ev)
	}

	term.PostEvent(RuneEvent('x', ModNone))
	if ev := next(term); ev.Type != EventKey || ev.Rune != 'x' {
		t.Errorf("event = %+v", ev)
	}
}

func TestTerminalCellStyle(t *testing.T) {
	term, _ := newSimTerminal(t)

	style := core.NewStyle(core.ColorFromRGB(10, 20, 30)).WithBackground(core.ColorFromIndex(4)).Bold()
	cell := core.NewStyledCell('Q', style)
	term.SetCell(2, 3, cell)

	if got := term.GetCell(2, 3); !got.Equals(cell) {
		t.Errorf("GetCell = %+v, want %+v", got, cell)
	}
}
