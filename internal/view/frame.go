// Package view holds the forest of frames: opened documents and the views
// derived from them by queries, each with its own rendering state.
package view

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/jex/internal/jq"
	"github.com/dshills/jex/internal/renderer/core"
	"github.com/dshills/jex/internal/value"
)

// DerivedName is the default name of a frame created by a query.
const DerivedName = "derived"

// Frame is a node of the forest. Its payload is either Err, when deriving it
// failed, or View, which is nil when there was nothing to derive from.
type Frame struct {
	ID       uuid.UUID
	Name     string
	Query    string // empty for roots
	Source   string // file or URL a root frame was opened from
	Children []*Frame

	Err  error
	View *JSONView
}

// Open decodes a stream of JSON texts into a root frame named label.
func Open(r io.Reader, label string, rect core.ScreenRect) (*Frame, error) {
	values, err := value.Decode(r)
	if err != nil {
		var rerr *value.ReadError
		if errors.As(err, &rerr) {
			return nil, &IOError{Op: "read", Path: label, Err: rerr.Err}
		}
		return nil, err
	}
	return NewRoot(values, label, rect), nil
}

// NewRoot returns a root frame over values.
func NewRoot(values []value.Value, label string, rect core.ScreenRect) *Frame {
	return &Frame{
		ID:     uuid.New(),
		Name:   label,
		Source: label,
		View:   NewJSONView(values, rect),
	}
}

// Derive runs query against parent's values and returns the resulting frame.
// Compile and execution failures produce an error frame; the parent is never
// modified.
func Derive(parent *Frame, query string, rect core.ScreenRect) *Frame {
	f := &Frame{
		ID:    uuid.New(),
		Name:  DerivedName,
		Query: query,
	}
	f.View, f.Err = derive(parent, query, rect)
	return f
}

func derive(parent *Frame, query string, rect core.ScreenRect) (v *JSONView, err error) {
	if parent == nil || parent.View == nil {
		return nil, nil
	}
	values := parent.View.Values()
	if strings.TrimSpace(query) == "" || jq.IsIdentity(query) {
		return NewJSONView(values, rect), nil
	}

	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("query %q: engine panic: %v", query, r)
		}
	}()
	results, err := jq.Run(query, values)
	if err != nil {
		return nil, err
	}
	return NewJSONView(results, rect), nil
}

// Title returns the name shown for the frame.
func (f *Frame) Title() string {
	if f.Name != "" {
		return f.Name
	}
	if f.Query != "" {
		return f.Query
	}
	return DerivedName
}

// HasValues reports whether the frame has a rendering state.
func (f *Frame) HasValues() bool { return f.Err == nil && f.View != nil }

// Resize moves the frame's view, if any, into rect.
func (f *Frame) Resize(rect core.ScreenRect) {
	if f.View != nil {
		f.View.Resize(rect)
	}
}

func (f *Frame) rect() core.ScreenRect {
	if f.View != nil {
		return f.View.Rect()
	}
	return core.ScreenRect{}
}
