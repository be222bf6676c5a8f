package view

import (
	"errors"
	"fmt"
)

// ErrFrameNotFound is returned for a frame index that no longer resolves,
// typically one taken before a re-root.
var ErrFrameNotFound = errors.New("frame not found")

// IOError reports a read or write failure on a document.
type IOError struct {
	Op   string // "read", "save"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
