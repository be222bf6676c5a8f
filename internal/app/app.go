// Package app runs the interactive explorer: it owns the session, maps keys
// to actions, asks the user for text through a Prompter, and redraws the
// screen after every event.
//
// Everything happens on the goroutine calling Run. The file watcher and the
// terminal input reader talk to it only by posting backend events.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"

	"github.com/dshills/jex/internal/config"
	"github.com/dshills/jex/internal/input/keymap"
	"github.com/dshills/jex/internal/renderer"
	"github.com/dshills/jex/internal/renderer/backend"
	"github.com/dshills/jex/internal/renderer/core"
	"github.com/dshills/jex/internal/source"
	"github.com/dshills/jex/internal/value"
	"github.com/dshills/jex/internal/view"
	"github.com/dshills/jex/internal/watch"
)

// Options configures the application.
type Options struct {
	// Backend is the screen. Required.
	Backend backend.Backend

	// Prompter reads text from the user. Defaults to a LinerPrompter on Backend.
	Prompter Prompter

	// Config supplies the theme, key bindings, indent, tree pane and watch
	// settings. Defaults to built-in values.
	Config *config.Config

	// Logger receives diagnostics. Defaults to discarding them.
	Logger logr.Logger

	// Source configures opening further documents.
	Source source.Options
}

// Application is the interactive explorer.
type Application struct {
	backend  backend.Backend
	renderer *renderer.Renderer
	prompter Prompter
	keymap   *keymap.Keymap
	log      logr.Logger
	metrics  *Metrics
	source   source.Options

	session  *Session
	handlers map[keymap.Action]func(context.Context) error

	watchCfg config.WatchConfig
	watcher  *watch.Watcher

	running atomic.Bool
}

// New creates an application exploring root. Configuration problems are
// logged and shown in a flash once the screen is up.
func New(root *view.Frame, opts Options) (*Application, error) {
	if opts.Backend == nil {
		return nil, errors.New("app: backend is required")
	}
	if root == nil {
		return nil, errors.New("app: root frame is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	a := &Application{
		backend:  opts.Backend,
		prompter: opts.Prompter,
		keymap:   keymap.Default(),
		log:      log.WithName("app"),
		metrics:  NewMetrics(),
		source:   opts.Source,
		watchCfg: cfg.Watch(),
	}
	if a.prompter == nil {
		a.prompter = NewLinerPrompter(opts.Backend)
	}
	if a.source.HTTPTimeout == 0 {
		a.source.HTTPTimeout = cfg.Source().HTTPTimeout
	}

	var problems []string
	if err := a.keymap.Apply(cfg.KeyBindings()); err != nil {
		a.log.Error(err, "key bindings")
		problems = append(problems, err.Error())
	}
	ui := cfg.UI()
	for path, err := range cfg.ConfigErrors() {
		a.log.Error(err, "configuration", "path", path)
		problems = append(problems, err.Error())
	}
	sort.Strings(problems)

	a.renderer = renderer.New(opts.Backend, renderer.NewStyles(ui.Theme))
	a.session = NewSession(root, a.renderer.Screen(), ui.ShowTree, a.log)
	a.session.Indent = ui.Indent
	a.session.Search.Wrap = ui.SearchWrap
	if len(problems) > 0 {
		a.flash("configuration", strings.Join(problems, "\n"), true)
	}
	a.handlers = a.actionHandlers()
	return a, nil
}

// Session returns the session state.
func (a *Application) Session() *Session { return a.session }

// Metrics returns the event loop counters.
func (a *Application) Metrics() *Metrics { return a.metrics }

// Keymap returns the active key bindings.
func (a *Application) Keymap() *keymap.Keymap { return a.keymap }

// Run initializes the backend and processes events until the user quits,
// the backend closes or ctx is done.
func (a *Application) Run(ctx context.Context) (err error) {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if err := a.backend.Init(); err != nil {
		return NewOperationError("init", "terminal", err)
	}
	defer a.backend.Shutdown()
	defer func() {
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()

	if a.watchCfg.Enabled {
		if err := a.startWatcher(); err != nil {
			a.log.Error(err, "file watching disabled")
		}
	}
	defer a.stopWatcher()

	stop := context.AfterFunc(ctx, func() {
		a.backend.PostEvent(backend.Event{Type: backend.EventInterrupt, Payload: ctx.Err()})
	})
	defer stop()

	defer func() {
		a.log.Info("session ended", a.metrics.Snapshot().KeysAndValues()...)
	}()

	a.draw()
	for {
		ev := a.backend.PollEvent()
		a.metrics.RecordEvent()
		switch ev.Type {
		case backend.EventClosed:
			return nil
		case backend.EventKey:
			if err := a.handleKey(ctx, ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				a.flashError(err)
			}
		case backend.EventInterrupt:
			switch p := ev.Payload.(type) {
			case watch.Change:
				a.reload(p)
			case error:
				if ctx.Err() != nil {
					return nil
				}
			}
		}
		a.draw()
	}
}

func (a *Application) draw() {
	start := time.Now()
	screen := a.renderer.Screen()
	a.session.Fit(screen)
	a.renderer.Draw(a.session.Scene(screen))
	a.metrics.RecordRender(time.Since(start))
}

func (a *Application) flash(title, text string, isErr bool) {
	a.metrics.RecordFlash()
	a.session.SetFlash(title, text, isErr)
}

func (a *Application) flashError(err error) {
	a.log.Error(err, "operation failed")
	a.flash("error", err.Error(), true)
}

// handleKey routes a key to the flash while one is shown, otherwise to the
// bound action.
func (a *Application) handleKey(ctx context.Context, ev backend.Event) error {
	action, ok := a.keymap.Lookup(ev)
	if a.session.Flash != nil {
		a.flashKey(action, ok)
		return nil
	}
	if !ok {
		return nil
	}
	h, ok := a.handlers[action]
	if !ok {
		return nil
	}
	a.log.V(1).Info("action", "name", string(action))
	a.session.Fit(a.renderer.Screen())
	return h(ctx)
}

func (a *Application) flashKey(action keymap.Action, ok bool) {
	if !ok {
		return
	}
	screen := a.renderer.Screen()
	page := max(renderer.FlashRect(screen, a.session.Flash.Text).Height()-2, 1)
	switch action {
	case keymap.Quit:
		a.session.Flash = nil
	case keymap.Down:
		a.session.ScrollFlash(1, screen)
	case keymap.Up:
		a.session.ScrollFlash(-1, screen)
	case keymap.PageDown:
		a.session.ScrollFlash(page, screen)
	case keymap.PageUp:
		a.session.ScrollFlash(-page, screen)
	}
}

// openDocument reads the document named by arg into a new tree.
func (a *Application) openDocument(ctx context.Context, arg string) (view.FrameIndex, error) {
	kind := source.Classify(arg).String()
	rc, err := source.Open(ctx, arg, a.source)
	if err != nil {
		return view.FrameIndex{}, NewOperationError("open", arg, err).WithContext(kind)
	}
	defer rc.Close()
	fr, err := view.Open(rc, arg, core.ScreenRect{})
	if err != nil {
		return view.FrameIndex{}, NewOperationError("open", arg, err).WithContext(kind)
	}
	idx := a.session.Forest.AddTree(fr)
	a.watchFrame(fr)
	return idx, nil
}

func (a *Application) startWatcher() error {
	w, err := watch.New(a.watchCfg.Interval, a.log, func(c watch.Change) {
		a.backend.PostEvent(backend.Event{Type: backend.EventInterrupt, Payload: c})
	})
	if err != nil {
		return err
	}
	a.watcher = w
	for _, root := range a.session.Forest.Trees {
		a.watchFrame(root)
	}
	return nil
}

func (a *Application) stopWatcher() {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Close(); err != nil {
		a.log.Error(err, "closing watcher")
	}
	a.watcher = nil
}

// watchFrame starts watching the file a root frame was read from.
func (a *Application) watchFrame(fr *view.Frame) {
	if a.watcher == nil || fr.Source == "" || source.Classify(fr.Source) != source.KindFile {
		return
	}
	if a.watcher.Watching(fr.Source) {
		return
	}
	if err := a.watcher.Add(fr.Source); err != nil {
		a.log.Error(err, "watch", "path", fr.Source)
	}
}

// reload replaces the values of every tree read from the changed file.
func (a *Application) reload(c watch.Change) {
	values, err := decode(c.Data)
	if err != nil {
		a.flashError(NewOperationError("reload", c.Path, err))
		return
	}
	found := false
	for i, root := range a.session.Forest.Trees {
		abs, err := filepath.Abs(root.Source)
		if root.Source == "" || err != nil || abs != c.Path {
			continue
		}
		found = true
		if err := a.session.Forest.Reload(i, values); err != nil {
			a.log.Error(err, "reload", "tree", i)
			continue
		}
		a.metrics.RecordReload()
		a.log.Info("reloaded", "path", c.Path, "values", len(values))
	}
	if !found && a.watcher != nil {
		// The tree was dropped by a re-root.
		if err := a.watcher.Remove(c.Path); err != nil {
			a.log.Error(err, "unwatch", "path", c.Path)
		}
	}
}

func decode(data []byte) ([]value.Value, error) {
	rc, err := source.Decompress(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	values, err := value.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return values, nil
}
