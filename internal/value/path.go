package value

import (
	"strconv"
	"strings"
)

// Path addresses a node inside a value set. The first element selects the
// top-level value; each further element selects the child at that position
// (array index or object member position).
//
// Paths sort in document order: a parent sorts before its descendants, which
// sort before the parent's next sibling.
type Path []int

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return append(Path(make([]int, 0, len(p))), p...)
}

// Child returns a new path addressing the i-th child of p.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Parent returns the path of the parent node, or nil for a top-level path.
func (p Path) Parent() Path {
	if len(p) <= 1 {
		return nil
	}
	return p[:len(p)-1].Clone()
}

// Last returns the final index of p.
func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Equal reports whether two paths address the same node.
func (p Path) Equal(o Path) bool {
	return Compare(p, o) == 0
}

// HasPrefix reports whether prefix is p itself or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// IsDescendantOf reports whether p lies strictly below ancestor.
func (p Path) IsDescendantOf(ancestor Path) bool {
	return len(p) > len(ancestor) && p.HasPrefix(ancestor)
}

// Key returns a compact string form usable as a map key.
func (p Path) Key() string {
	var b strings.Builder
	for i, n := range p {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// String implements fmt.Stringer.
func (p Path) String() string { return "/" + p.Key() }

// Compare orders paths in document order.
func Compare(a, b Path) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// At resolves p against a value set.
func At(set []Value, p Path) (Value, bool) {
	if len(p) == 0 || p[0] < 0 || p[0] >= len(set) {
		return Value{}, false
	}
	v := set[p[0]]
	for _, i := range p[1:] {
		c, ok := v.Child(i)
		if !ok {
			return Value{}, false
		}
		v = c
	}
	return v, true
}

// Query renders p as a jq path expression such as .items[2].name.
// Sets with more than one top-level value prefix the expression with the
// document number, e.g. "#1 .name".
func Query(set []Value, p Path) string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	if len(set) > 1 {
		b.WriteString("#")
		b.WriteString(strconv.Itoa(p[0]))
		b.WriteString(" ")
	}
	v, ok := At(set, p[:1])
	if !ok {
		return ""
	}
	if len(p) == 1 {
		b.WriteString(".")
		return b.String()
	}
	start := b.Len()
	for _, i := range p[1:] {
		switch v.Kind() {
		case Array:
			b.WriteString("[")
			b.WriteString(strconv.Itoa(i))
			b.WriteString("]")
		case Object:
			m, _ := v.Member(i)
			if isIdent(m.Key) {
				b.WriteString(".")
				b.WriteString(m.Key)
			} else {
				b.WriteString("[")
				b.WriteString(strconv.Quote(m.Key))
				b.WriteString("]")
			}
		}
		c, ok := v.Child(i)
		if !ok {
			break
		}
		v = c
	}
	out := b.String()
	if strings.HasPrefix(out[start:], "[") {
		out = out[:start] + "." + out[start:]
	}
	return out
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
