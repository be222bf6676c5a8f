// Package key parses key specifications such as "Ctrl+S", "<C-s>", "PgDn"
// or "/" into comparable Key values and matches them against terminal
// events.
package key

import (
	"strings"

	"github.com/dshills/jex/internal/renderer/backend"
)

// Key is one key press: a special key, or a rune with modifiers.
// Keys are comparable and usable as map keys.
type Key struct {
	Code backend.Key
	Rune rune
	Mod  backend.ModMask
}

// Rune returns the key for a character.
func Rune(r rune, mod backend.ModMask) Key {
	return normalize(Key{Code: backend.KeyRune, Rune: r, Mod: mod})
}

// Special returns the key for a named key.
func Special(code backend.Key, mod backend.ModMask) Key {
	return normalize(Key{Code: code, Mod: mod})
}

// FromEvent returns the key pressed in a key event.
func FromEvent(ev backend.Event) Key {
	if ev.Key == backend.KeyRune {
		return Rune(ev.Rune, ev.Mod)
	}
	return Special(ev.Key, ev.Mod)
}

// normalize drops Shift from runes, where it is already part of the
// character, and folds Shift+Tab into Backtab.
func normalize(k Key) Key {
	switch {
	case k.Code == backend.KeyRune:
		k.Mod &^= backend.ModShift
		if k.Mod.Has(backend.ModCtrl) && k.Rune >= 'A' && k.Rune <= 'Z' {
			k.Rune += 'a' - 'A'
		}
	case k.Code == backend.KeyTab && k.Mod.Has(backend.ModShift):
		k.Code = backend.KeyBacktab
		k.Mod &^= backend.ModShift
	default:
		k.Rune = 0
	}
	return k
}

// Matches reports whether ev is a press of k.
func (k Key) Matches(ev backend.Event) bool {
	return ev.Type == backend.EventKey && FromEvent(ev) == k
}

// String formats k in the "Ctrl+S" form Parse accepts.
func (k Key) String() string {
	var sb strings.Builder
	for _, m := range []struct {
		mod  backend.ModMask
		name string
	}{
		{backend.ModCtrl, "Ctrl+"},
		{backend.ModAlt, "Alt+"},
		{backend.ModMeta, "Meta+"},
		{backend.ModShift, "Shift+"},
	} {
		if k.Mod.Has(m.mod) {
			sb.WriteString(m.name)
		}
	}
	switch {
	case k.Code != backend.KeyRune:
		sb.WriteString(k.Code.String())
	case k.Rune == ' ':
		sb.WriteString("Space")
	case k.Rune == '+' && k.Mod != backend.ModNone:
		sb.WriteString("Plus")
	case k.Mod.Has(backend.ModCtrl):
		sb.WriteString(strings.ToUpper(string(k.Rune)))
	default:
		sb.WriteRune(k.Rune)
	}
	return sb.String()
}
