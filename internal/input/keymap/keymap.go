// Package keymap binds keys to the actions of the explorer.
package keymap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/jex/internal/input/key"
	"github.com/dshills/jex/internal/renderer/backend"
)

// Action names a command the explorer can run in response to a key.
type Action string

const (
	Quit        Action = "quit"
	ToggleTree  Action = "toggleTree"
	EditQuery   Action = "editQuery"
	SwitchFocus Action = "switchFocus"
	AddChild    Action = "addChild"
	NextFrame   Action = "nextFrame"
	PrevFrame   Action = "prevFrame"
	Rename      Action = "rename"
	Save        Action = "save"
	Open        Action = "open"
	Help        Action = "help"
	Down        Action = "down"
	Up          Action = "up"
	PageDown    Action = "pageDown"
	PageUp      Action = "pageUp"
	Home        Action = "home"
	End         Action = "end"
	Fold        Action = "fold"
	Search      Action = "search"
	NextMatch   Action = "nextMatch"
	PrevMatch   Action = "prevMatch"
)

// ErrUnknownAction is returned when binding a name that is not an Action.
var ErrUnknownAction = errors.New("unknown action")

type actionInfo struct {
	action      Action
	description string
	defaults    []string
}

// actions lists every action in help order.
var actions = []actionInfo{
	{Quit, "quit, or close this message", []string{"Esc", "Ctrl+C"}},
	{Help, "show this help", []string{"h", "?", "F1"}},
	{EditQuery, "edit the query of the focused view", []string{"q"}},
	{Search, "search the focused view (regular expression)", []string{"/"}},
	{NextMatch, "next search match", []string{"n"}},
	{PrevMatch, "previous search match", []string{"N"}},
	{Fold, "fold or unfold the container at the cursor", []string{"z"}},
	{Down, "cursor down", []string{"Down"}},
	{Up, "cursor up", []string{"Up"}},
	{PageDown, "page down", []string{"PgDn"}},
	{PageUp, "page up", []string{"PgUp"}},
	{Home, "first line", []string{"Home"}},
	{End, "last line", []string{"End"}},
	{SwitchFocus, "switch focus between the panes", []string{"Tab"}},
	{AddChild, "add a child view of the focused view", []string{"+"}},
	{NextFrame, "show the next view in the focused pane", []string{"j"}},
	{PrevFrame, "show the previous view in the focused pane", []string{"k"}},
	{ToggleTree, "show or hide the view tree", []string{"t"}},
	{Rename, "rename the focused view", []string{"r"}},
	{Save, "save the focused view and make it the root", []string{"s"}},
	{Open, "open another document", []string{"o"}},
}

// Actions returns every action in help order.
func Actions() []Action {
	out := make([]Action, len(actions))
	for i, a := range actions {
		out[i] = a.action
	}
	return out
}

// Description returns the help text of an action.
func (a Action) Description() string {
	for _, info := range actions {
		if info.action == a {
			return info.description
		}
	}
	return ""
}

// Valid reports whether a names a known action.
func (a Action) Valid() bool {
	return a.Description() != ""
}

// Keymap maps keys to actions.
type Keymap struct {
	byKey    map[key.Key]Action
	byAction map[Action][]key.Key
}

// New returns an empty keymap.
func New() *Keymap {
	return &Keymap{
		byKey:    make(map[key.Key]Action),
		byAction: make(map[Action][]key.Key),
	}
}

// Default returns the built-in bindings.
func Default() *Keymap {
	m := New()
	for _, info := range actions {
		keys := make([]key.Key, len(info.defaults))
		for i, spec := range info.defaults {
			keys[i] = key.MustParse(spec)
		}
		m.set(info.action, keys)
	}
	return m
}

// Bind replaces the keys of action. A key already bound to another action
// moves to this one.
func (m *Keymap) Bind(action Action, specs ...string) error {
	if !action.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	keys := make([]key.Key, 0, len(specs))
	for _, spec := range specs {
		k, err := key.Parse(spec)
		if err != nil {
			return fmt.Errorf("binding %s: %w", action, err)
		}
		keys = append(keys, k)
	}
	m.set(action, keys)
	return nil
}

func (m *Keymap) set(action Action, keys []key.Key) {
	for _, k := range m.byAction[action] {
		delete(m.byKey, k)
	}
	for _, k := range keys {
		if prev, ok := m.byKey[k]; ok && prev != action {
			m.byAction[prev] = without(m.byAction[prev], k)
		}
		m.byKey[k] = action
	}
	m.byAction[action] = keys
}

func without(keys []key.Key, k key.Key) []key.Key {
	out := keys[:0:0]
	for _, other := range keys {
		if other != k {
			out = append(out, other)
		}
	}
	return out
}

// Apply binds every action named in overrides, in sorted order. Problems
// are collected; valid entries are applied regardless.
func (m *Keymap) Apply(overrides map[string][]string) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := m.Bind(Action(name), overrides[name]...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the action bound to the key pressed in ev.
func (m *Keymap) Lookup(ev backend.Event) (Action, bool) {
	if ev.Type != backend.EventKey {
		return "", false
	}
	a, ok := m.byKey[key.FromEvent(ev)]
	return a, ok
}

// Keys returns the keys bound to action.
func (m *Keymap) Keys(action Action) []key.Key {
	return append([]key.Key(nil), m.byAction[action]...)
}

// Help returns one line per action: its keys and what it does.
func (m *Keymap) Help() []string {
	lines := make([]string, 0, len(actions))
	width := 0
	names := make([]string, len(actions))
	for i, info := range actions {
		var ks []string
		for _, k := range m.byAction[info.action] {
			ks = append(ks, k.String())
		}
		if len(ks) == 0 {
			ks = []string{"(unbound)"}
		}
		names[i] = strings.Join(ks, " ")
		width = max(width, len(names[i]))
	}
	for i, info := range actions {
		lines = append(lines, fmt.Sprintf("%-*s  %s", width, names[i], info.description))
	}
	return lines
}
