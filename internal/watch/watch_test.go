package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"v": 1}`), 0o644))

	changes := make(chan Change, 10)
	w, err := New(time.Millisecond, logr.Discard(), func(c Change) { changes <- c })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Add(path))
	assert.ErrorIs(t, w.Add(path), ErrAlreadyWatching)
	assert.True(t, w.Watching(path))

	require.NoError(t, os.WriteFile(path, []byte(`{"v": 2}`), 0o644))

	select {
	case c := <-changes:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, c.Path)
		assert.Equal(t, `{"v": 2}`, string(c.Data))
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`1`), 0o644))

	changes := make(chan Change, 10)
	w, err := New(time.Millisecond, logr.Discard(), func(c Change) { changes <- c })
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(path))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`2`), 0o644))

	select {
	case c := <-changes:
		t.Fatalf("unexpected change %s", c.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherRemoveAndClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`1`), 0o644))

	w, err := New(0, logr.Discard(), func(Change) {})
	require.NoError(t, err)
	require.NoError(t, w.Add(path))
	require.NoError(t, w.Remove(path))
	assert.False(t, w.Watching(path))

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Add(path), ErrClosed)
}

func TestWatcherMissingFile(t *testing.T) {
	w, err := New(0, logr.Discard(), func(Change) {})
	require.NoError(t, err)
	defer w.Close()
	assert.Error(t, w.Add(filepath.Join(t.TempDir(), "missing.json")))
}
