// Package watch reports when a watched document file changes content.
//
// The parent directory of every file is watched so editors that save by
// writing a new file and renaming it over the old one are still seen.
// Reloads are spaced by a rate limiter and skipped when the content hash
// did not change.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum time between two reloads of the same watcher.
const DefaultInterval = 250 * time.Millisecond

var (
	// ErrClosed is returned when using a closed watcher.
	ErrClosed = errors.New("watcher closed")
	// ErrAlreadyWatching is returned when adding a path twice.
	ErrAlreadyWatching = errors.New("already watching")
)

// Change carries the new content of a watched file.
type Change struct {
	Path string
	Data []byte
}

// Handler receives changes on the watcher goroutine.
type Handler func(Change)

type entry struct {
	hash uint64
}

// Watcher watches document files.
type Watcher struct {
	mu sync.Mutex

	fs      *fsnotify.Watcher
	limiter *rate.Limiter
	log     logr.Logger
	handler Handler

	files map[string]*entry // by absolute path
	dirs  map[string]int    // watched directory -> number of files in it

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New starts a watcher. interval spaces consecutive reloads; zero selects
// DefaultInterval.
func New(interval time.Duration, log logr.Logger, handler Handler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	w := &Watcher{
		fs:      fsw,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		log:     log.WithName("watch"),
		handler: handler,
		files:   make(map[string]*entry),
		dirs:    make(map[string]int),
		closeCh: make(chan struct{}),
	}
	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// Add starts watching path. The current content is the baseline; only later
// changes are reported.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if _, ok := w.files[abs]; ok {
		return ErrAlreadyWatching
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = &entry{hash: xxhash.Sum64(data)}
	w.log.V(1).Info("watching", "path", abs)
	return nil
}

// Remove stops watching path.
func (w *Watcher) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if _, ok := w.files[abs]; !ok {
		return nil
	}
	delete(w.files, abs)
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		return w.fs.Remove(dir)
	}
	return nil
}

// Watching reports whether path is watched.
func (w *Watcher) Watching(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[abs]
	return ok
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	return w.fs.Close()
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-w.closeCh
		cancel()
	}()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.handle(ctx, ev.Name)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Error(err, "fsnotify")
		}
	}
}

func (w *Watcher) handle(ctx context.Context, name string) {
	w.mu.Lock()
	_, ok := w.files[name]
	w.mu.Unlock()
	if !ok {
		return
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return
	}
	data, err := os.ReadFile(name)
	if err != nil || len(data) == 0 {
		// Truncated, mid-rename or deleted; a later event brings the new content.
		w.log.V(1).Info("skipped", "path", name, "err", err)
		return
	}
	sum := xxhash.Sum64(data)

	w.mu.Lock()
	e, ok := w.files[name]
	changed := ok && e.hash != sum
	if changed {
		e.hash = sum
	}
	w.mu.Unlock()

	if changed {
		w.log.V(1).Info("changed", "path", name, "bytes", len(data))
		w.handler(Change{Path: name, Data: data})
	}
}
