package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/jex/internal/cursor"
	"github.com/dshills/jex/internal/value"
)

func doc(t *testing.T, s string) cursor.Doc {
	t.Helper()
	values, err := value.DecodeBytes([]byte(s))
	require.NoError(t, err)
	return cursor.Doc{Values: values, Folds: &cursor.FoldSet{}}
}

func TestCompileError(t *testing.T) {
	_, err := Compile("a(")
	require.Error(t, err)
	var perr *PatternError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, "a(", perr.Pattern)
}

func TestWrapDeterminism(t *testing.T) {
	d := doc(t, `"apple" "banana" "cherry"`)
	re, err := Compile("^\"a")
	require.NoError(t, err)

	got, ok := Search(d, value.Path{1}, Forward, true, re)
	require.True(t, ok)
	assert.Equal(t, value.Path{0}, got)

	_, ok = Search(d, value.Path{1}, Forward, false, re)
	assert.False(t, ok)
}

func TestSearchSkipsStart(t *testing.T) {
	d := doc(t, `"apple" "banana" "cherry"`)
	re, _ := Compile("a")

	_, ok := Search(d, value.Path{0}, Forward, true, re)
	require.True(t, ok)

	only, _ := Compile("apple")
	_, ok = Search(d, value.Path{0}, Forward, true, only)
	assert.False(t, ok)
}

func TestSearchBackward(t *testing.T) {
	d := doc(t, `{"a": 1, "b": 2, "c": 3}`)
	re, _ := Compile(`"c"`)

	got, ok := Search(d, value.Path{0, 1}, Backward, true, re)
	require.True(t, ok)
	assert.Equal(t, value.Path{0, 2}, got)

	_, ok = Search(d, value.Path{0, 1}, Backward, false, re)
	assert.False(t, ok)
}

func TestSearchMatchesKeyAndValue(t *testing.T) {
	d := doc(t, `{"name": "jex", "tags": ["json"]}`)
	re, _ := Compile(`name.*jex`)
	got, ok := Search(d, value.Path{0}, Forward, false, re)
	require.True(t, ok)
	assert.Equal(t, value.Path{0, 0}, got)
}

func TestSearchIgnoresFolded(t *testing.T) {
	d := doc(t, `{"outer": {"needle": 1}, "after": 2}`)
	d.Folds.Set(value.Path{0, 0}, true)
	re, _ := Compile("needle")

	_, ok := Search(d, value.Path{0}, Forward, true, re)
	assert.False(t, ok)
}

func TestSearchEmpty(t *testing.T) {
	re, _ := Compile(".")
	_, ok := Search(cursor.Doc{}, nil, Forward, true, re)
	assert.False(t, ok)
}

func TestStateRepeat(t *testing.T) {
	d := doc(t, `["x1", "y", "x2", "x3"]`)
	var s State
	_, ok := s.Next(d, value.Path{0}, false)
	assert.False(t, ok)

	require.Error(t, s.Set("[", Forward))
	require.NoError(t, s.Set("x", Forward))
	s.Wrap = true

	got, ok := s.Next(d, value.Path{0, 0}, false)
	require.True(t, ok)
	assert.Equal(t, value.Path{0, 2}, got)

	got, ok = s.Next(d, value.Path{0, 2}, true)
	require.True(t, ok)
	assert.Equal(t, value.Path{0, 0}, got)
}
