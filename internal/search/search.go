// Package search finds visible leaves whose rendered text matches a pattern.
package search

import (
	"fmt"
	"regexp"

	"github.com/dshills/jex/internal/cursor"
	"github.com/dshills/jex/internal/value"
)

// Direction is the scan direction.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// PatternError reports a malformed search pattern.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Compile compiles a search pattern.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// Search scans the visible leaves of doc starting just past from and returns
// the first leaf whose single-line text matches re. With wrap, the scan
// continues from the opposite end and stops before reaching from again.
func Search(doc cursor.Doc, from value.Path, dir Direction, wrap bool, re *regexp.Regexp) (value.Path, bool) {
	if from == nil || doc.Empty() {
		return nil, false
	}
	step := doc.Next
	restart := doc.First
	if dir == Backward {
		step = doc.Prev
		restart = doc.Last
	}

	wrapped := false
	p := from
	for {
		next, ok := step(p)
		if !ok {
			if !wrap || wrapped {
				return nil, false
			}
			wrapped = true
			next, _ = restart()
		}
		if next.Equal(from) {
			return nil, false
		}
		if matches(doc, next, re) {
			return next, true
		}
		p = next
	}
}

func matches(doc cursor.Doc, p value.Path, re *regexp.Regexp) bool {
	l, ok := doc.Leaf(p)
	return ok && re.MatchString(l.Text())
}

// State remembers the last pattern so a search can be repeated in either
// direction.
type State struct {
	Pattern string
	Re      *regexp.Regexp
	Dir     Direction
	Wrap    bool
}

// Set compiles pattern and makes it the active search.
func (s *State) Set(pattern string, dir Direction) error {
	re, err := Compile(pattern)
	if err != nil {
		return err
	}
	s.Pattern, s.Re, s.Dir = pattern, re, dir
	return nil
}

// Active reports whether a pattern has been set.
func (s *State) Active() bool { return s.Re != nil }

// Next repeats the active search from p; reverse flips its direction.
func (s *State) Next(doc cursor.Doc, p value.Path, reverse bool) (value.Path, bool) {
	if s.Re == nil {
		return nil, false
	}
	dir := s.Dir
	if reverse {
		dir = dir.Reverse()
	}
	return Search(doc, p, dir, s.Wrap, s.Re)
}
