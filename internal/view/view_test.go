package view

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/jex/internal/jq"
	"github.com/dshills/jex/internal/renderer/core"
	"github.com/dshills/jex/internal/search"
	"github.com/dshills/jex/internal/value"
)

var rect = core.RectFromSize(0, 0, 20, 80)

func open(t *testing.T, doc string) *Frame {
	t.Helper()
	f, err := Open(strings.NewReader(doc), "doc.json", rect)
	require.NoError(t, err)
	return f
}

func rowTexts(v *JSONView) []string {
	var out []string
	for _, r := range v.Rows() {
		out = append(out, r.Row.Text())
	}
	return out
}

func compact(values []value.Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.Compact()
	}
	return out
}

func TestOpen(t *testing.T) {
	f := open(t, `{"a": 1} [2]`)
	assert.Equal(t, "doc.json", f.Name)
	assert.Equal(t, "doc.json", f.Source)
	assert.Empty(t, f.Query)
	require.True(t, f.HasValues())
	assert.Len(t, f.View.Values(), 2)
	assert.Equal(t, value.Path{0}, f.View.Cursor())
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(strings.NewReader(`{"a": `), "bad.json", rect)
	require.Error(t, err)
	assert.ErrorIs(t, err, value.ErrDecode)

	boom := errors.New("boom")
	_, err = Open(iotest.ErrReader(boom), "net", rect)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
	assert.ErrorIs(t, err, boom)
}

func TestDeriveScenario(t *testing.T) {
	root := open(t, `{"x": [1,2,3], "y": "hi"}`)
	child := Derive(root, ".x", rect)
	require.NoError(t, child.Err)
	require.NotNil(t, child.View)
	assert.Equal(t, []string{"[1,2,3]"}, compact(child.View.Values()))
	assert.Equal(t, value.Path{0}, child.View.Cursor())
	assert.Equal(t, 0, child.View.Folds().Len())

	before := rowTexts(child.View)
	assert.Equal(t, []string{"[", "  1,", "  2,", "  3", "]"}, before)

	require.NoError(t, child.View.ToggleFold(value.Path{0}))
	assert.Equal(t, []string{"[…]"}, rowTexts(child.View))
	require.NoError(t, child.View.ToggleFold(value.Path{0}))
	assert.Equal(t, before, rowTexts(child.View))
}

func TestDeriveKeepsMemberOrder(t *testing.T) {
	root := open(t, `{"x": {"zeta": 1, "alpha": 2, "mid": 3}}`)
	child := Derive(root, ".x", rect)
	require.NoError(t, child.Err)
	assert.Equal(t, []string{"{", `  "zeta": 1,`, `  "alpha": 2,`, `  "mid": 3`, "}"}, rowTexts(child.View))
}

func TestDeriveCompileErrorLeavesParent(t *testing.T) {
	root := open(t, `{"x": [1,2,3], "y": {"z": true}}`)
	require.NoError(t, root.View.ToggleFold(value.Path{0, 1}))
	root.View.AdvanceCursor()
	root.View.AdvanceCursor()
	cursorBefore := root.View.Cursor()
	foldsBefore := root.View.Folds().Clone()

	child := Derive(root, "...", rect)
	require.Error(t, child.Err)
	var cerr *jq.CompileError
	assert.True(t, errors.As(child.Err, &cerr))
	assert.Nil(t, child.View)
	assert.False(t, child.HasValues())

	assert.Equal(t, cursorBefore, root.View.Cursor())
	assert.True(t, foldsBefore.Equal(root.View.Folds()))
}

func TestDeriveExecutionError(t *testing.T) {
	root := open(t, `1`)
	child := Derive(root, ".foo", rect)
	var eerr *jq.ExecutionError
	assert.True(t, errors.As(child.Err, &eerr))
}

func TestDeriveIsolation(t *testing.T) {
	root := open(t, `{"a": [1, 2], "b": {"c": "d"}}`)
	parentBefore := compact(root.View.Values())

	keys := Derive(root, "keys", rect)
	same := Derive(root, ".", rect)
	mapped := Derive(root, ".a | map(. * 10)", rect)
	require.NoError(t, keys.Err)
	require.NoError(t, same.Err)
	require.NoError(t, mapped.Err)

	keysBefore := compact(keys.View.Values())
	require.NoError(t, same.View.ToggleFold(value.Path{0}))
	same.View.End()

	assert.Equal(t, parentBefore, compact(root.View.Values()))
	assert.Equal(t, keysBefore, compact(keys.View.Values()))
	assert.Equal(t, []string{`[10,20]`}, compact(mapped.View.Values()))
	assert.Equal(t, 0, root.View.Folds().Len())
	assert.Equal(t, value.Path{0}, root.View.Cursor())

	// The identity view shares the parent's values rather than copying them.
	assert.Same(t, &root.View.Values()[0], &same.View.Values()[0])
}

func TestDeriveFromErrorFrame(t *testing.T) {
	root := open(t, `1`)
	bad := Derive(root, ".[", rect)
	require.Error(t, bad.Err)

	child := Derive(bad, ".", rect)
	assert.NoError(t, child.Err)
	assert.Nil(t, child.View)
}

func TestForestIndexAndReRoot(t *testing.T) {
	var f Forest
	r := f.AddTree(open(t, `{"a": {"b": 1}}`))
	a, err := f.PushChild(r, ".a", rect)
	require.NoError(t, err)
	b, err := f.PushChild(a, ".b", rect)
	require.NoError(t, err)
	assert.Equal(t, FrameIndex{Tree: 0, Path: []int{0, 0}}, b)

	fb, err := f.Index(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, compact(fb.View.Values()))

	_, err = f.Index(FrameIndex{Tree: 0, Path: []int{3}})
	assert.ErrorIs(t, err, ErrFrameNotFound)

	require.NoError(t, f.ReRoot(a))
	require.Len(t, f.Trees, 1)
	root, err := f.Index(Root(0))
	require.NoError(t, err)
	assert.Empty(t, root.Query)
	require.Len(t, root.Children, 1)

	_, err = f.Index(b)
	assert.ErrorIs(t, err, ErrFrameNotFound)
	assert.ErrorIs(t, f.ReRoot(Root(4)), ErrFrameNotFound)
}

func TestForestRecompute(t *testing.T) {
	var f Forest
	r := f.AddTree(open(t, `{"a": {"b": 1}, "c": {"b": 2}}`))
	a, _ := f.PushChild(r, ".a", rect)
	b, _ := f.PushChild(a, ".b", rect)

	fa, _ := f.Index(a)
	fa.Query = ".c"
	require.NoError(t, f.Recompute(a, rect))

	fb, _ := f.Index(b)
	assert.Equal(t, []string{"2"}, compact(fb.View.Values()))

	fa.Query = ".["
	require.NoError(t, f.Recompute(a, rect))
	assert.Error(t, fa.Err)
	assert.Nil(t, fb.View)
	assert.NoError(t, fb.Err)
}

func TestForestReload(t *testing.T) {
	var f Forest
	r := f.AddTree(open(t, `{"items": [1, 2, 3]}`))
	items, _ := f.PushChild(r, ".items", rect)
	fi, _ := f.Index(items)
	fi.View.End()

	require.NoError(t, f.Reload(0, []value.Value{value.ObjectValue(value.Member{
		Key: "items", Value: value.ArrayValue(value.IntValue(7), value.IntValue(8), value.IntValue(9), value.IntValue(10)),
	})}))
	fi, _ = f.Index(items)
	assert.Equal(t, []string{"[7,8,9,10]"}, compact(fi.View.Values()))
	assert.Equal(t, value.Path{0, 2}, fi.View.Cursor())
}

func TestForestWalk(t *testing.T) {
	var f Forest
	r0 := f.AddTree(open(t, `1`))
	c0, _ := f.PushTrivialChild(r0, rect)
	c1, _ := f.PushTrivialChild(r0, rect)
	r1 := f.AddTree(open(t, `2`))

	var order []FrameIndex
	for idx := range f.All() {
		order = append(order, idx)
	}
	require.Len(t, order, 4)
	assert.True(t, order[0].Equal(r0))
	assert.True(t, order[1].Equal(c0))
	assert.True(t, order[2].Equal(c1))
	assert.True(t, order[3].Equal(r1))
	assert.Equal(t, 4, f.Len())

	next, ok := f.Next(c1)
	require.True(t, ok)
	assert.True(t, next.Equal(r1))
	_, ok = f.Next(r1)
	assert.False(t, ok)

	prev, ok := f.Prev(c0)
	require.True(t, ok)
	assert.True(t, prev.Equal(r0))
	_, ok = f.Prev(r0)
	assert.False(t, ok)

	fr, _ := f.Index(c1)
	found, ok := f.Find(fr)
	require.True(t, ok)
	assert.True(t, found.Equal(c1))

	parent, ok := c1.Parent()
	require.True(t, ok)
	assert.True(t, parent.Equal(r0))
}

func TestSaveJSON(t *testing.T) {
	root := open(t, `{"b": 1, "a": [true]} "two"`)
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Save(root.View, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	again, err := value.DecodeBytes(data)
	require.NoError(t, err)
	assert.Equal(t, compact(root.View.Values()), compact(again))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveYAML(t *testing.T) {
	root := open(t, `{"name": "jex"}`)
	path := filepath.Join(t.TempDir(), "out.yml")
	require.NoError(t, Save(root.View, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: jex")
}

func TestSaveFailureKeepsDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "dest")
	require.NoError(t, os.Mkdir(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "keep"), []byte("x"), 0o644))

	err := Save(open(t, `1`).View, dest)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "save", ioErr.Op)

	_, statErr := os.Stat(filepath.Join(dest, "keep"))
	assert.NoError(t, statErr)
	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1)

	err = Save(open(t, `1`).View, filepath.Join(dir, "missing", "x.json"))
	assert.True(t, errors.As(err, &ioErr))
	assert.Error(t, Save(nil, filepath.Join(dir, "y.json")))
}

func TestViewSearchAndQuery(t *testing.T) {
	root := open(t, `{"items": [{"name": "a"}, {"name": "needle"}]}`)
	var s search.State
	require.NoError(t, s.Set("needle", search.Forward))

	require.True(t, root.View.Search(&s, false))
	assert.Equal(t, value.Path{0, 0, 1, 0}, root.View.Cursor())
	assert.Equal(t, ".items[1].name", root.View.CursorQuery())

	assert.False(t, root.View.Search(&s, false))
}
