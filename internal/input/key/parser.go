package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/jex/internal/renderer/backend"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string.
//
// Supported formats:
//   - Single character: "a", "N", "/", "+", "?"
//   - Named keys: "Enter", "Esc", "Tab", "PgDn", "PageUp", "F1", "Space"
//   - With modifiers: "Ctrl+S", "Alt+Enter", "Shift+Tab", "Ctrl+Plus"
//   - Vim-style: "<C-s>", "<A-f>", "<CR>", "<Esc>", "<S-Tab>"
func Parse(spec string) (Key, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Key{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	// A lone "+" or a spec ending in "++" names the plus key itself.
	if spec != "+" && strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}

	return parseKeyWithModifiers(spec, backend.ModNone)
}

// parseVimStyle parses the inside of "<C-s>", "<A-S-Tab>" or "<CR>".
func parseVimStyle(inner string) (Key, error) {
	parts := strings.Split(strings.TrimSpace(inner), "-")
	keyPart := parts[len(parts)-1]
	if keyPart == "" && len(parts) > 1 {
		// "<C-->" is Ctrl with the minus key.
		keyPart = "-"
		parts = parts[:len(parts)-1]
	}

	var mods backend.ModMask
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "c":
			mods |= backend.ModCtrl
		case "a", "m":
			mods |= backend.ModAlt
		case "s":
			mods |= backend.ModShift
		case "d":
			mods |= backend.ModMeta
		default:
			return Key{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}
	return parseKeyWithModifiers(keyPart, mods)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (Key, error) {
	keyPart := spec[strings.LastIndex(spec, "+")+1:]
	modPart := strings.TrimSuffix(spec, "+"+keyPart)
	if keyPart == "" {
		// "Ctrl++"
		keyPart = "+"
		modPart = strings.TrimSuffix(spec, "++")
	}

	var mods backend.ModMask
	for _, p := range strings.Split(modPart, "+") {
		mod, ok := modifierNames[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return Key{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods |= mod
	}
	return parseKeyWithModifiers(keyPart, mods)
}

var modifierNames = map[string]backend.ModMask{
	"ctrl":    backend.ModCtrl,
	"control": backend.ModCtrl,
	"alt":     backend.ModAlt,
	"opt":     backend.ModAlt,
	"option":  backend.ModAlt,
	"shift":   backend.ModShift,
	"meta":    backend.ModMeta,
	"cmd":     backend.ModMeta,
	"super":   backend.ModMeta,
}

var keyAliases = map[string]backend.Key{
	"cr":       backend.KeyEnter,
	"return":   backend.KeyEnter,
	"escape":   backend.KeyEscape,
	"bs":       backend.KeyBackspace,
	"del":      backend.KeyDelete,
	"ins":      backend.KeyInsert,
	"pageup":   backend.KeyPageUp,
	"pagedown": backend.KeyPageDown,
}

var runeAliases = map[string]rune{
	"space":  ' ',
	"plus":   '+',
	"minus":  '-',
	"lt":     '<',
	"gt":     '>',
	"bar":    '|',
	"bslash": '\\',
}

// parseKeyWithModifiers parses a key part with already-known modifiers.
func parseKeyWithModifiers(keyPart string, mods backend.ModMask) (Key, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Key{}, ErrInvalidSpec
	}

	if utf8.RuneCountInString(keyPart) == 1 {
		r, _ := utf8.DecodeRuneInString(keyPart)
		return Rune(r, mods), nil
	}

	lower := strings.ToLower(keyPart)
	if code, ok := keyAliases[lower]; ok {
		return Special(code, mods), nil
	}
	if r, ok := runeAliases[lower]; ok {
		return Rune(r, mods), nil
	}
	if code := backend.KeyFromName(keyPart); code != backend.KeyNone {
		return Special(code, mods), nil
	}

	return Key{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Key {
	k, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return k
}
