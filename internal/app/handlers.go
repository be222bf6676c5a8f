package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/jex/internal/cursor"
	"github.com/dshills/jex/internal/input/keymap"
	"github.com/dshills/jex/internal/search"
	"github.com/dshills/jex/internal/view"
)

func (a *Application) actionHandlers() map[keymap.Action]func(context.Context) error {
	return map[keymap.Action]func(context.Context) error{
		keymap.Quit:        a.quit,
		keymap.ToggleTree:  a.toggleTree,
		keymap.EditQuery:   a.editQuery,
		keymap.SwitchFocus: a.switchFocus,
		keymap.AddChild:    a.addChild,
		keymap.NextFrame:   a.nextFrame,
		keymap.PrevFrame:   a.prevFrame,
		keymap.Rename:      a.rename,
		keymap.Save:        a.save,
		keymap.Open:        a.open,
		keymap.Help:        a.help,
		keymap.Down:        a.onView((*view.JSONView).AdvanceCursor),
		keymap.Up:          a.onView((*view.JSONView).RegressCursor),
		keymap.PageDown:    a.onView(pageDown),
		keymap.PageUp:      a.onView(pageUp),
		keymap.Home:        a.onView(home),
		keymap.End:         a.onView(end),
		keymap.Fold:        a.fold,
		keymap.Search:      a.search,
		keymap.NextMatch:   a.repeatSearch(false),
		keymap.PrevMatch:   a.repeatSearch(true),
	}
}

func pageDown(v *view.JSONView) bool { v.PageDown(); return true }
func pageUp(v *view.JSONView) bool   { v.PageUp(); return true }
func home(v *view.JSONView) bool     { v.Home(); return true }
func end(v *view.JSONView) bool      { v.End(); return true }

// onView applies move to the focused view. Frames without values ignore it.
func (a *Application) onView(move func(*view.JSONView) bool) func(context.Context) error {
	return func(context.Context) error {
		if fr, _ := a.session.Focused(); fr.HasValues() {
			move(fr.View)
		}
		return nil
	}
}

// prompt asks for text. A canceled prompt yields ok == false and no error.
func (a *Application) prompt(field, label, initial string) (string, bool, error) {
	text, err := a.prompter.Prompt(field, label, initial)
	if errors.Is(err, ErrPromptCanceled) {
		return "", false, nil
	}
	if err != nil {
		return "", false, NewOperationError("prompt", field, err)
	}
	return text, true, nil
}

func (a *Application) quit(context.Context) error { return ErrQuit }

func (a *Application) toggleTree(context.Context) error {
	a.session.ShowTree = !a.session.ShowTree
	return nil
}

func (a *Application) switchFocus(context.Context) error {
	a.session.Focus = a.session.Focus.Other()
	return nil
}

func (a *Application) addChild(context.Context) error {
	_, idx := a.session.Focused()
	rect := a.session.PaneRect(a.session.Focus, a.renderer.Screen())
	_, err := a.session.Forest.PushTrivialChild(idx, rect)
	return err
}

func (a *Application) nextFrame(context.Context) error {
	_, idx := a.session.Focused()
	if next, ok := a.session.Forest.Next(idx); ok {
		a.session.SetIndex(a.session.Focus, next)
	}
	return nil
}

func (a *Application) prevFrame(context.Context) error {
	_, idx := a.session.Focused()
	if prev, ok := a.session.Forest.Prev(idx); ok {
		a.session.SetIndex(a.session.Focus, prev)
	}
	return nil
}

// editQuery changes the query of the focused frame and re-derives it and
// its descendants. Roots have no query.
func (a *Application) editQuery(context.Context) error {
	fr, idx := a.session.Focused()
	if idx.Depth() == 0 {
		return nil
	}
	text, ok, err := a.prompt(FieldQuery, "Query: ", fr.Query)
	if !ok {
		return err
	}
	fr.Query = text
	rect := a.session.PaneRect(a.session.Focus, a.renderer.Screen())
	if err := a.session.Forest.Recompute(idx, rect); err != nil {
		return err
	}
	if fr.Err != nil {
		a.log.V(1).Info("query failed", "query", text, "err", fr.Err.Error())
	}
	return nil
}

func (a *Application) rename(context.Context) error {
	fr, _ := a.session.Focused()
	text, ok, err := a.prompt(FieldRename, "Name: ", fr.Name)
	if !ok {
		return err
	}
	fr.Name = text
	return nil
}

// save writes the focused frame and makes it the only tree, named after
// the file it was saved to.
func (a *Application) save(context.Context) error {
	fr, idx := a.session.Focused()
	if !fr.HasValues() {
		return NewOperationError("save", fr.Title(), ErrNoValues)
	}
	path, ok, err := a.prompt(FieldSave, "Save to: ", fr.Name)
	if !ok || path == "" {
		return err
	}
	if err := view.Save(fr.View, path); err != nil {
		return NewOperationError("save", path, err)
	}
	a.log.Info("saved", "path", path, "frame", idx.String())

	fr.Name = path
	fr.Source = path
	if err := a.session.Forest.ReRoot(idx); err != nil {
		return err
	}
	a.session.ReRooted(idx)
	a.watchFrame(fr)
	return nil
}

// open reads another document into a new tree shown in the focused pane.
func (a *Application) open(ctx context.Context) error {
	arg, ok, err := a.prompt(FieldOpen, "Open: ", "")
	if !ok || strings.TrimSpace(arg) == "" {
		return err
	}
	idx, err := a.openDocument(ctx, strings.TrimSpace(arg))
	if err != nil {
		return err
	}
	a.session.SetIndex(a.session.Focus, idx)
	return nil
}

func (a *Application) help(context.Context) error {
	a.flash("help", strings.Join(a.keymap.Help(), "\n"), false)
	return nil
}

func (a *Application) fold(context.Context) error {
	fr, _ := a.session.Focused()
	if !fr.HasValues() {
		return nil
	}
	if err := fr.View.ToggleFoldAtCursor(); err != nil && !errors.Is(err, cursor.ErrNotFoldable) {
		return err
	}
	return nil
}

// search asks for a pattern and moves to the first match after the cursor.
func (a *Application) search(context.Context) error {
	fr, _ := a.session.Focused()
	if !fr.HasValues() {
		return nil
	}
	pattern, ok, err := a.prompt(FieldSearch, "Search: ", "")
	if !ok || pattern == "" {
		return err
	}
	if err := a.session.Search.Set(pattern, search.Forward); err != nil {
		return NewOperationError("search", pattern, err)
	}
	return a.findNext(fr.View, false)
}

func (a *Application) repeatSearch(reverse bool) func(context.Context) error {
	return func(context.Context) error {
		fr, _ := a.session.Focused()
		if !fr.HasValues() || !a.session.Search.Active() {
			return nil
		}
		return a.findNext(fr.View, reverse)
	}
}

func (a *Application) findNext(v *view.JSONView, reverse bool) error {
	if v.Search(&a.session.Search, reverse) {
		return nil
	}
	a.flash("search", fmt.Sprintf("pattern not found: %s", a.session.Search.Pattern), false)
	return nil
}
