package key

import (
	"errors"
	"testing"

	"github.com/dshills/jex/internal/renderer/backend"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Key
	}{
		{"a", Rune('a', backend.ModNone)},
		{"N", Rune('N', backend.ModNone)},
		{"/", Rune('/', backend.ModNone)},
		{"+", Rune('+', backend.ModNone)},
		{"?", Rune('?', backend.ModNone)},
		{"Esc", Special(backend.KeyEscape, backend.ModNone)},
		{"escape", Special(backend.KeyEscape, backend.ModNone)},
		{"Enter", Special(backend.KeyEnter, backend.ModNone)},
		{"Tab", Special(backend.KeyTab, backend.ModNone)},
		{"PgDn", Special(backend.KeyPageDown, backend.ModNone)},
		{"PageUp", Special(backend.KeyPageUp, backend.ModNone)},
		{"F1", Special(backend.KeyF1, backend.ModNone)},
		{"Space", Rune(' ', backend.ModNone)},
		{"Ctrl+S", Rune('s', backend.ModCtrl)},
		{"ctrl+s", Rune('s', backend.ModCtrl)},
		{"Ctrl+Alt+X", Rune('x', backend.ModCtrl|backend.ModAlt)},
		{"Ctrl++", Rune('+', backend.ModCtrl)},
		{"Ctrl+Plus", Rune('+', backend.ModCtrl)},
		{"Shift+Tab", Special(backend.KeyBacktab, backend.ModNone)},
		{"Alt+Enter", Special(backend.KeyEnter, backend.ModAlt)},
		{"<C-s>", Rune('s', backend.ModCtrl)},
		{"<CR>", Special(backend.KeyEnter, backend.ModNone)},
		{"<Esc>", Special(backend.KeyEscape, backend.ModNone)},
		{"<S-Tab>", Special(backend.KeyBacktab, backend.ModNone)},
		{"<C-->", Rune('-', backend.ModCtrl)},
		{"<", Rune('<', backend.ModNone)},
	}

	for _, tt := range tests {
		got, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.spec, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse("  "); !errors.Is(err, ErrEmptySpec) {
		t.Errorf("Parse(blank) error = %v, want ErrEmptySpec", err)
	}
	for _, spec := range []string{"Hyper+X", "NotAKey", "<Q-x>", "Ctrl+"} {
		if _, err := Parse(spec); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidSpec", spec, err)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, spec := range []string{"a", "N", "+", "Ctrl+S", "Ctrl+Plus", "Alt+Enter", "Backtab", "PgDn", "F12", "Space", "Esc"} {
		k := MustParse(spec)
		again, err := Parse(k.String())
		if err != nil {
			t.Errorf("Parse(%q.String() = %q) error = %v", spec, k.String(), err)
			continue
		}
		if again != k {
			t.Errorf("round trip of %q: %+v != %+v", spec, again, k)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		spec string
		ev   backend.Event
		want bool
	}{
		{"N", backend.RuneEvent('N', backend.ModShift), true},
		{"N", backend.RuneEvent('n', backend.ModNone), false},
		{"Ctrl+C", backend.RuneEvent('c', backend.ModCtrl), true},
		{"Shift+Tab", backend.KeyEvent(backend.KeyBacktab, backend.ModNone), true},
		{"Shift+Tab", backend.KeyEvent(backend.KeyTab, backend.ModShift), true},
		{"Tab", backend.KeyEvent(backend.KeyTab, backend.ModNone), true},
		{"Down", backend.Event{Type: backend.EventResize}, false},
	}
	for _, tt := range tests {
		if got := MustParse(tt.spec).Matches(tt.ev); got != tt.want {
			t.Errorf("%q.Matches(%+v) = %v, want %v", tt.spec, tt.ev, got, tt.want)
		}
	}
}
