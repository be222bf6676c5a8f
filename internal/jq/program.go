// Package jq wraps the filter engine behind a compile/execute API.
//
// A Program owns one compiled query. Executing it yields a Results sequence
// that pulls one engine result at a time and converts it to a value.Value on
// demand. Every Results releases its execution context exactly once, whether
// it is drained, abandoned through Close, or unwound by a panic inside Collect.
//
// Result objects list their members in the order the input wrote them (see
// KeyOrder). JSONPath queries see numbers as float64, so integers beyond 2^53
// come back rounded; jq queries keep them exact.
package jq

import (
	"context"
	"errors"
	"iter"
	"os"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/dshills/jex/internal/value"
)

// errNulByte rejects query text the engine would silently truncate.
var errNulByte = errors.New("query contains a NUL byte")

// engineIter is the pull protocol shared by gojq iterators and the JSONPath dialect.
type engineIter interface {
	Next() (any, bool)
}

type runFunc func(ctx context.Context, input any) engineIter

// Program is a compiled query bound to its own execution state.
// A Program is not safe for concurrent use.
type Program struct {
	query  string
	run    runFunc
	active *Results
	closed bool
}

// Compile compiles query text. Text equal to "$" or starting with "$." or "$["
// is compiled as a JSONPath selector; everything else is jq.
func Compile(text string) (*Program, error) {
	if strings.ContainsRune(text, 0) {
		return nil, &CompileError{Query: text, Err: errNulByte}
	}
	if isJSONPath(text) {
		return compileJSONPath(text)
	}

	q, err := gojq.Parse(text)
	if err != nil {
		return nil, &CompileError{Query: text, Err: err}
	}
	code, err := gojq.Compile(q, gojq.WithEnvironLoader(os.Environ))
	if err != nil {
		return nil, &CompileError{Query: text, Err: err}
	}
	return &Program{
		query: text,
		run: func(ctx context.Context, input any) engineIter {
			return code.RunWithContext(ctx, input)
		},
	}, nil
}

// IsIdentity reports whether text is the identity filter.
func IsIdentity(text string) bool {
	return strings.TrimSpace(text) == "."
}

// Query returns the source text of the program.
func (p *Program) Query() string { return p.query }

// Execute starts the program with root as its input.
// Only one Results may be open per Program; close or drain it before executing again.
func (p *Program) Execute(root value.Value) (*Results, error) {
	if p.closed {
		return nil, ErrClosed
	}
	if p.active != nil {
		return nil, ErrBusy
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Results{
		prog:   p,
		cancel: cancel,
		order:  NewKeyOrder(),
	}
	p.active = r
	r.it = p.run(ctx, p.input(root, r.order))
	return r, nil
}

func (p *Program) input(root value.Value, order *KeyOrder) any {
	if isJSONPath(p.query) {
		return fromValueFloat(root, order)
	}
	return fromValue(root, order)
}

// Close releases the program and any open Results. Close is idempotent.
func (p *Program) Close() {
	if p.closed {
		return
	}
	if p.active != nil {
		p.active.Close()
	}
	p.closed = true
}

// Results is a lazy, finite, non-restartable sequence of query results.
type Results struct {
	prog   *Program
	it     engineIter
	cancel context.CancelFunc
	order  *KeyOrder
	cur    value.Value
	err    error
	done   bool
}

// Next advances to the next result. It returns false when the sequence is
// exhausted or failed; check Err afterwards.
func (r *Results) Next() bool {
	if r.done {
		return false
	}
	x, ok := r.it.Next()
	if !ok {
		r.finish()
		return false
	}
	if err, isErr := x.(error); isErr {
		var halt *gojq.HaltError
		if !errors.As(err, &halt) || halt.Value() != nil {
			r.err = &ExecutionError{Query: r.prog.query, Err: err}
		}
		r.finish()
		return false
	}
	v, err := toValue(x, r.order)
	if err != nil {
		r.err = err
		r.finish()
		return false
	}
	r.cur = v
	return true
}

// Value returns the current result.
func (r *Results) Value() value.Value { return r.cur }

// Err returns the error that ended the sequence, if any.
func (r *Results) Err() error { return r.err }

// Close abandons the sequence and releases its execution context.
func (r *Results) Close() {
	r.finish()
}

// All returns the remaining results as an iterator. The Results is closed when
// iteration stops, including when the loop body breaks early.
func (r *Results) All() iter.Seq2[value.Value, error] {
	return func(yield func(value.Value, error) bool) {
		defer r.Close()
		for r.Next() {
			if !yield(r.cur, nil) {
				return
			}
		}
		if r.err != nil {
			yield(value.Value{}, r.err)
		}
	}
}

func (r *Results) finish() {
	if r.done {
		return
	}
	r.done = true
	r.cancel()
	r.it = nil
	if r.prog.active == r {
		r.prog.active = nil
	}
}

// Collect runs p over each root in order and concatenates the results.
func Collect(p *Program, roots []value.Value) ([]value.Value, error) {
	out := make([]value.Value, 0, len(roots))
	for _, root := range roots {
		var err error
		out, err = collectOne(p, root, out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func collectOne(p *Program, root value.Value, out []value.Value) ([]value.Value, error) {
	res, err := p.Execute(root)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	for v, err := range res.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Run compiles text, runs it over roots, and releases the program.
func Run(text string, roots []value.Value) ([]value.Value, error) {
	p, err := Compile(text)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return Collect(p, roots)
}
