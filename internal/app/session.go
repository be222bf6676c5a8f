package app

import (
	"slices"

	"github.com/go-logr/logr"

	"github.com/dshills/jex/internal/renderer"
	"github.com/dshills/jex/internal/renderer/core"
	"github.com/dshills/jex/internal/renderer/layout"
	"github.com/dshills/jex/internal/search"
	"github.com/dshills/jex/internal/view"
)

// Side selects one of the two value panes.
type Side int

const (
	Left Side = iota
	Right
)

// Other returns the opposite pane.
func (s Side) Other() Side {
	if s == Left {
		return Right
	}
	return Left
}

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Session is the state of one explorer run. Handlers receive it explicitly;
// nothing in it is global.
type Session struct {
	Forest   view.Forest
	Left     view.FrameIndex
	Right    view.FrameIndex
	Focus    Side
	ShowTree bool
	Indent   int
	Search   search.State
	Flash    *renderer.Flash

	log logr.Logger
}

// NewSession starts a session on root. The left pane shows root and the
// right pane, which has focus, an identity child of it.
func NewSession(root *view.Frame, screen core.ScreenRect, showTree bool, log logr.Logger) *Session {
	s := &Session{
		ShowTree: showTree,
		Focus:    Right,
		Search:   search.State{Wrap: true},
		log:      log,
	}
	s.Left = s.Forest.AddTree(root)
	s.Right = s.Left
	if child, err := s.Forest.PushTrivialChild(s.Left, s.PaneRect(Right, screen)); err == nil {
		s.Right = child
	}
	s.Fit(screen)
	return s
}

// Layout partitions screen for the current tree pane setting.
func (s *Session) Layout(screen core.ScreenRect) layout.Layout {
	return layout.Compute(screen, s.ShowTree)
}

// PaneRect returns the area views in a pane are sized to.
func (s *Session) PaneRect(side Side, screen core.ScreenRect) core.ScreenRect {
	l := s.Layout(screen)
	if side == Right {
		return layout.Inner(l.Right)
	}
	return layout.Inner(l.Left)
}

// Index returns the frame index shown in a pane.
func (s *Session) Index(side Side) view.FrameIndex {
	if side == Right {
		return s.Right
	}
	return s.Left
}

// SetIndex shows the frame at idx in a pane.
func (s *Session) SetIndex(side Side, idx view.FrameIndex) {
	if side == Right {
		s.Right = idx
	} else {
		s.Left = idx
	}
}

// Frame resolves the frame of a pane. A stale index is a bug in a handler;
// it is logged and the pane falls back to the first root.
func (s *Session) Frame(side Side) (*view.Frame, view.FrameIndex) {
	idx := s.Index(side)
	fr, err := s.Forest.Index(idx)
	if err == nil {
		return fr, idx
	}
	s.log.Error(err, "stale frame index", "pane", side.String(), "index", idx.String())
	idx = view.Root(0)
	s.SetIndex(side, idx)
	fr, _ = s.Forest.Index(idx)
	return fr, idx
}

// Focused resolves the frame of the focused pane.
func (s *Session) Focused() (*view.Frame, view.FrameIndex) {
	return s.Frame(s.Focus)
}

// Fit sizes the frames on screen to their panes. A frame shown in both
// panes takes the size of the focused one.
func (s *Session) Fit(screen core.ScreenRect) {
	for _, side := range []Side{s.Focus.Other(), s.Focus} {
		fr, _ := s.Frame(side)
		if fr == nil || fr.View == nil {
			continue
		}
		if s.Indent > 0 {
			fr.View.SetIndent(s.Indent)
		}
		fr.Resize(s.PaneRect(side, screen))
	}
}

// ReRooted moves both panes after the frame at idx became the only tree.
// Indices inside the kept subtree follow it; everything else falls back to
// the new root.
func (s *Session) ReRooted(idx view.FrameIndex) {
	for _, side := range []Side{Left, Right} {
		old := s.Index(side)
		next := view.Root(0)
		if old.Tree == idx.Tree && len(old.Path) >= len(idx.Path) && slices.Equal(old.Path[:len(idx.Path)], idx.Path) {
			next.Path = slices.Clone(old.Path[len(idx.Path):])
		}
		s.SetIndex(side, next)
	}
}

// SetFlash shows a message box.
func (s *Session) SetFlash(title, text string, isErr bool) {
	s.Flash = &renderer.Flash{Title: title, Text: text, Error: isErr}
}

// ScrollFlash moves the flash text by delta lines.
func (s *Session) ScrollFlash(delta int, screen core.ScreenRect) {
	if s.Flash == nil {
		return
	}
	s.Flash.Scroll = min(max(s.Flash.Scroll+delta, 0), renderer.FlashScrollMax(screen, s.Flash))
}

// TreeEntries lists every frame for the tree pane.
func (s *Session) TreeEntries() []renderer.TreeEntry {
	var out []renderer.TreeEntry
	for idx, fr := range s.Forest.All() {
		out = append(out, renderer.TreeEntry{
			Label: fr.Title(),
			Depth: idx.Depth(),
			Left:  idx.Equal(s.Left),
			Right: idx.Equal(s.Right),
		})
	}
	return out
}

// Scene builds what is drawn for screen.
func (s *Session) Scene(screen core.ScreenRect) *renderer.Scene {
	left, _ := s.Frame(Left)
	right, _ := s.Frame(Right)
	focused := left
	if s.Focus == Right {
		focused = right
	}
	scene := &renderer.Scene{
		Layout: s.Layout(screen),
		Left:   renderer.Pane{Frame: left, Focused: s.Focus == Left},
		Right:  renderer.Pane{Frame: right, Focused: s.Focus == Right},
		Flash:  s.Flash,
	}
	if focused != nil {
		scene.Query = focused.Query
	}
	if s.ShowTree {
		scene.Tree = s.TreeEntries()
	}
	return scene
}
