package renderer

import (
	"github.com/dshills/jex/internal/config"
	"github.com/dshills/jex/internal/cursor"
	"github.com/dshills/jex/internal/renderer/core"
)

// Styles resolves theme colours into cell styles.
type Styles struct {
	segments map[cursor.SegmentKind]core.Style

	Border      core.Style
	FocusBorder core.Style
	Title       core.Style
	Cursor      core.Color // background of cursor rows
	IdleCursor  core.Color // cursor rows of unfocused panes
	Error       core.Style
	Dim         core.Style
	Marker      core.Style
}

// NewStyles builds the styles for theme.
func NewStyles(theme config.Theme) Styles {
	return Styles{
		segments: map[cursor.SegmentKind]core.Style{
			cursor.SegPlain:   core.DefaultStyle(),
			cursor.SegKey:     core.NewStyle(theme.Key),
			cursor.SegNull:    core.NewStyle(theme.Null),
			cursor.SegBool:    core.NewStyle(theme.Bool),
			cursor.SegNumber:  core.NewStyle(theme.Number),
			cursor.SegString:  core.NewStyle(theme.String),
			cursor.SegBracket: core.NewStyle(theme.Bracket),
			cursor.SegFolded:  core.NewStyle(theme.Bracket).Dim(),
		},
		Border:      core.NewStyle(theme.Border),
		FocusBorder: core.NewStyle(theme.FocusBorder).Bold(),
		Title:       core.DefaultStyle().Bold(),
		Cursor:      theme.Cursor,
		IdleCursor:  theme.Cursor.Blend(core.ColorFromRGB(0, 0, 0), 0.5),
		Error:       core.NewStyle(theme.Error),
		Dim:         core.DefaultStyle().Dim(),
		Marker:      core.NewStyle(theme.FocusBorder).Bold(),
	}
}

// DefaultStyles returns the styles of the built-in theme.
func DefaultStyles() Styles {
	return NewStyles(config.DefaultTheme())
}

// Segment returns the style of a rendered segment kind.
func (s Styles) Segment(kind cursor.SegmentKind) core.Style {
	if st, ok := s.segments[kind]; ok {
		return st
	}
	return core.DefaultStyle()
}

// cursor returns the background of a pane's cursor row.
func (s Styles) cursorBackground(focused bool) core.Color {
	if focused {
		return s.Cursor
	}
	return s.IdleCursor
}

// border returns the border style of a pane.
func (s Styles) border(focused bool) core.Style {
	if focused {
		return s.FocusBorder
	}
	return s.Border
}
