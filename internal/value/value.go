// Package value provides the immutable JSON value tree shared by every view.
//
// A Value is one of six kinds: null, bool, number, string, array and object.
// Numbers keep their JSON literal so that rendering never loses precision.
// Objects keep their members in insertion order for rendering, while
// equality ignores member order.
package value

import (
	"math"
	"math/big"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an immutable JSON value.
// The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	s       string // string contents or number literal
	items   []Value
	members []Member
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// NumberValue returns a number value from a JSON number literal.
// The literal is not validated; callers decoding JSON get validation from the decoder.
func NumberValue(literal string) Value { return Value{kind: Number, s: literal} }

// IntValue returns an integral number value.
func IntValue(i int64) Value { return NumberValue(strconv.FormatInt(i, 10)) }

// FloatValue returns a number value formatted the way jq prints floats.
func FloatValue(f float64) Value { return NumberValue(FormatFloat(f)) }

// ArrayValue returns an array holding a copy of items.
func ArrayValue(items ...Value) Value {
	return Value{kind: Array, items: append([]Value(nil), items...)}
}

// ObjectValue returns an object holding a copy of members in the given order.
// Later members replace earlier members with the same key, keeping the first position.
func ObjectValue(members ...Member) Value {
	out := make([]Member, 0, len(members))
	seen := make(map[string]int, len(members))
	for _, m := range members {
		if i, ok := seen[m.Key]; ok {
			out[i].Value = m.Value
			continue
		}
		seen[m.Key] = len(out)
		out = append(out, m)
	}
	return Value{kind: Object, members: out}
}

// arrayOwned and objectOwned take ownership of the slice without copying.
func arrayOwned(items []Value) Value     { return Value{kind: Array, items: items} }
func objectOwned(members []Member) Value { return Value{kind: Object, members: members} }

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload; false for other kinds.
func (v Value) Bool() bool { return v.kind == Bool && v.b }

// Str returns the string payload; empty for other kinds.
func (v Value) Str() string {
	if v.kind != String {
		return ""
	}
	return v.s
}

// Literal returns the JSON literal of a number; empty for other kinds.
func (v Value) Literal() string {
	if v.kind != Number {
		return ""
	}
	return v.s
}

// Float64 returns the numeric payload as a float64.
func (v Value) Float64() float64 {
	if v.kind != Number {
		return 0
	}
	// ParseFloat reports ±Inf with ErrRange for huge literals.
	f, _ := strconv.ParseFloat(v.s, 64)
	return f
}

// IsContainer reports whether v is an array or an object.
func (v Value) IsContainer() bool { return v.kind == Array || v.kind == Object }

// Len returns the number of children of a container, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	default:
		return 0
	}
}

// Foldable reports whether v is a container with at least one child.
func (v Value) Foldable() bool { return v.IsContainer() && v.Len() > 0 }

// Child returns the i-th child of a container: the element of an array or the
// member value of an object.
func (v Value) Child(i int) (Value, bool) {
	switch v.kind {
	case Array:
		if i >= 0 && i < len(v.items) {
			return v.items[i], true
		}
	case Object:
		if i >= 0 && i < len(v.members) {
			return v.members[i].Value, true
		}
	}
	return Value{}, false
}

// Member returns the i-th member of an object.
func (v Value) Member(i int) (Member, bool) {
	if v.kind != Object || i < 0 || i >= len(v.members) {
		return Member{}, false
	}
	return v.members[i], true
}

// Lookup returns the member value for key.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Items returns a copy of the array elements.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	return append([]Value(nil), v.items...)
}

// Members returns a copy of the object members in insertion order.
func (v Value) Members() []Member {
	if v.kind != Object {
		return nil
	}
	return append([]Member(nil), v.members...)
}

// Equal reports deep equality. Object member order is ignored and numbers are
// compared by value, so 1 and 1.0 are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == o.b
	case String:
		return v.s == o.s
	case Number:
		return numbersEqual(v.s, o.s)
	case Array:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.members) != len(o.members) {
			return false
		}
		for _, m := range v.members {
			ov, ok := o.Lookup(m.Key)
			if !ok || !m.Value.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	x, okx := new(big.Float).SetString(a)
	y, oky := new(big.Float).SetString(b)
	if okx && oky {
		return x.Cmp(y) == 0
	}
	fa, _ := strconv.ParseFloat(a, 64)
	fb, _ := strconv.ParseFloat(b, 64)
	return fa == fb
}

// FormatFloat formats f the way jq prints numbers: plain notation for
// moderate magnitudes, exponent notation otherwise. NaN has no JSON form and
// formats as null.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "null"
	case math.IsInf(f, 1):
		f = math.MaxFloat64
	case math.IsInf(f, -1):
		f = -math.MaxFloat64
	}
	if a := math.Abs(f); a != 0 && (a < 1e-6 || a >= 1e21) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
