package jq

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when a closed Program or Results is used.
	ErrClosed = errors.New("jq: program closed")

	// ErrBusy is returned when Execute is called while an earlier Results is still open.
	ErrBusy = errors.New("jq: program is already executing")
)

// CompileError reports query text that cannot be compiled.
type CompileError struct {
	Query string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %q: %v", e.Query, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// ExecutionError reports a failure raised by the engine while a query runs,
// such as a type mismatch inside the filter.
type ExecutionError struct {
	Query string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute %q: %v", e.Query, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// DecodeError reports an engine value that has no JSON representation.
type DecodeError struct {
	Type string // Go type of the offending payload
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot convert engine value of type %s", e.Type)
}
