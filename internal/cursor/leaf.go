package cursor

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/jex/internal/value"
)

// SegmentKind classifies rendered text for styling.
type SegmentKind int

const (
	SegPlain SegmentKind = iota
	SegKey
	SegNull
	SegBool
	SegNumber
	SegString
	SegBracket
	SegFolded
)

// Segment is a run of text with one kind.
type Segment struct {
	Text string
	Kind SegmentKind
}

// Row is one screen row of a rendered leaf.
type Row []Segment

// Text returns the concatenated text of the row.
func (r Row) Text() string {
	var b strings.Builder
	for _, s := range r {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Width returns the display width of the row.
func (r Row) Width() int {
	n := 0
	for _, s := range r {
		n += runewidth.StringWidth(s.Text)
	}
	return n
}

// closer is a closing bracket line rendered after a leaf.
type closer struct {
	bracket string
	depth   int
	comma   bool
}

// Leaf is a visible node together with everything needed to render it.
type Leaf struct {
	Path   value.Path
	Value  value.Value
	Key    string
	HasKey bool
	Folded bool

	last    bool
	indent  int
	closers []closer
}

// Leaf returns the leaf at p.
func (d Doc) Leaf(p value.Path) (Leaf, bool) {
	v, ok := value.At(d.Values, p)
	if !ok {
		return Leaf{}, false
	}
	l := Leaf{
		Path:   p,
		Value:  v,
		Folded: v.Foldable() && d.folded(p),
		indent: d.indent(),
		last:   p.Last()+1 == d.siblings(p),
	}
	if len(p) > 1 {
		parent, _ := value.At(d.Values, p.Parent())
		if m, ok := parent.Member(p.Last()); ok {
			l.Key, l.HasKey = m.Key, true
		}
	}
	if d.open(p, v) {
		return l, true
	}
	for q := p; len(q) > 1 && q.Last()+1 == d.siblings(q); {
		q = q.Parent()
		pv, _ := value.At(d.Values, q)
		l.closers = append(l.closers, closer{
			bracket: closeBracket(pv),
			depth:   len(q) - 1,
			comma:   len(q) > 1 && q.Last()+1 < d.siblings(q),
		})
	}
	return l, true
}

// Depth is the nesting level of the leaf; top-level values have depth 0.
func (l Leaf) Depth() int { return len(l.Path) - 1 }

// Open reports whether the leaf is a container showing its children.
func (l Leaf) Open() bool { return l.Value.Foldable() && !l.Folded }

// Text is the single-line form of the leaf: its key, if any, and its value.
// Search matches against this text.
func (l Leaf) Text() string {
	var b strings.Builder
	for _, s := range l.head(false) {
		b.WriteString(s.Text)
	}
	return b.String()
}

func (l Leaf) head(comma bool) Row {
	var row Row
	if l.HasKey {
		row = append(row, Segment{value.StringValue(l.Key).Compact(), SegKey}, Segment{": ", SegPlain})
	}
	v := l.Value
	switch {
	case l.Open():
		row = append(row, Segment{openBracket(v), SegBracket})
		return row
	case l.Folded:
		row = append(row, Segment{openBracket(v) + "…" + closeBracket(v), SegFolded})
	case v.IsContainer():
		row = append(row, Segment{openBracket(v) + closeBracket(v), SegBracket})
	default:
		row = append(row, Segment{v.Compact(), scalarKind(v)})
	}
	if comma && len(l.Path) > 1 && !l.last {
		row = append(row, Segment{",", SegPlain})
	}
	return row
}

// Lines returns the logical lines of the leaf before wrapping: its head line
// and any closing brackets that follow it, each with its indentation.
func (l Leaf) Lines() []Row {
	lines := make([]Row, 0, 1+len(l.closers))
	lines = append(lines, indented(l.Depth()*l.indent, l.head(true)))
	for _, c := range l.closers {
		row := Row{{c.bracket, SegBracket}}
		if c.comma {
			row = append(row, Segment{",", SegPlain})
		}
		lines = append(lines, indented(c.depth*l.indent, row))
	}
	return lines
}

// Rows returns the leaf wrapped to width columns. A width of zero or less
// disables wrapping.
func (l Leaf) Rows(width int) []Row {
	var rows []Row
	for _, line := range l.Lines() {
		rows = append(rows, wrap(line, width)...)
	}
	return rows
}

// RowCount returns len(l.Rows(width)) without building the rows.
func (l Leaf) RowCount(width int) int {
	n := 0
	for _, line := range l.Lines() {
		n += wrappedCount(line, width)
	}
	return n
}

func indented(n int, row Row) Row {
	if n == 0 {
		return row
	}
	return append(Row{{strings.Repeat(" ", n), SegPlain}}, row...)
}

func leadingSpaces(row Row) int {
	if len(row) > 0 && row[0].Kind == SegPlain && strings.TrimLeft(row[0].Text, " ") == "" {
		return len(row[0].Text)
	}
	return 0
}

// continuation returns the indentation of wrapped rows, dropped when it would
// leave less than half the width for text.
func continuation(row Row, width int) int {
	n := leadingSpaces(row)
	if n*2 > width {
		return 0
	}
	return n
}

func wrap(line Row, width int) []Row {
	if width <= 0 || line.Width() <= width {
		return []Row{line}
	}
	cont := continuation(line, width)
	var (
		rows []Row
		cur  Row
		buf  strings.Builder
		used int
	)
	flush := func(kind SegmentKind) {
		if buf.Len() > 0 {
			cur = append(cur, Segment{buf.String(), kind})
			buf.Reset()
		}
	}
	for _, seg := range line {
		for _, r := range seg.Text {
			w := runewidth.RuneWidth(r)
			if used+w > width && used > cont {
				flush(seg.Kind)
				rows = append(rows, cur)
				cur = nil
				used = 0
				if cont > 0 {
					cur = Row{{strings.Repeat(" ", cont), SegPlain}}
					used = cont
				}
			}
			buf.WriteRune(r)
			used += w
		}
		flush(seg.Kind)
	}
	return append(rows, cur)
}

func wrappedCount(line Row, width int) int {
	if width <= 0 || line.Width() <= width {
		return 1
	}
	cont := continuation(line, width)
	n, used := 1, 0
	for _, seg := range line {
		for _, r := range seg.Text {
			w := runewidth.RuneWidth(r)
			if used+w > width && used > cont {
				n++
				used = cont
			}
			used += w
		}
	}
	return n
}

func openBracket(v value.Value) string {
	if v.Kind() == value.Object {
		return "{"
	}
	return "["
}

func closeBracket(v value.Value) string {
	if v.Kind() == value.Object {
		return "}"
	}
	return "]"
}

func scalarKind(v value.Value) SegmentKind {
	switch v.Kind() {
	case value.Bool:
		return SegBool
	case value.Number:
		return SegNumber
	case value.String:
		return SegString
	default:
		return SegNull
	}
}
