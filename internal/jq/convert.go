package jq

import (
	"fmt"
	"math"
	"math/big"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/jex/internal/value"
)

// FromValue converts a value tree into the engine's representation:
// nil, bool, int, float64, *big.Int, string, []any and map[string]any.
func FromValue(v value.Value) any {
	return fromValue(v, nil)
}

func fromValue(v value.Value, order *KeyOrder) any {
	switch v.Kind() {
	case value.Bool:
		return v.Bool()
	case value.Number:
		return fromLiteral(v.Literal())
	case value.String:
		return v.Str()
	case value.Array:
		out := make([]any, v.Len())
		for i := range out {
			c, _ := v.Child(i)
			out[i] = fromValue(c, order)
		}
		return out
	case value.Object:
		order.note(v)
		out := make(map[string]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			m, _ := v.Member(i)
			out[m.Key] = fromValue(m.Value, order)
		}
		return out
	default:
		return nil
	}
}

func fromLiteral(lit string) any {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.Atoi(lit); err == nil {
			return i
		}
		if b, ok := new(big.Int).SetString(lit, 10); ok {
			return b
		}
	}
	f, _ := strconv.ParseFloat(lit, 64)
	return f
}

// ToValue converts an engine result back into a value tree.
// Object members come out sorted by key because the engine does not keep
// insertion order; see KeyOrder for restoring it.
func ToValue(x any) (value.Value, error) {
	return toValue(x, nil)
}

func toValue(x any, order *KeyOrder) (value.Value, error) {
	switch t := x.(type) {
	case nil:
		return value.NullValue(), nil
	case bool:
		return value.BoolValue(t), nil
	case int:
		return value.IntValue(int64(t)), nil
	case int64:
		return value.IntValue(t), nil
	case float64:
		if math.IsNaN(t) {
			return value.NullValue(), nil
		}
		return value.FloatValue(t), nil
	case *big.Int:
		if t == nil {
			return value.Value{}, &DecodeError{Type: "nil *big.Int"}
		}
		return value.NumberValue(t.String()), nil
	case string:
		return value.StringValue(t), nil
	case []any:
		items := make([]value.Value, len(t))
		for i, item := range t {
			v, err := toValue(item, order)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
		}
		return value.ArrayValue(items...), nil
	case map[string]any:
		keys := order.keys(t)
		members := make([]value.Member, len(keys))
		for i, k := range keys {
			v, err := toValue(t[k], order)
			if err != nil {
				return value.Value{}, err
			}
			members[i] = value.Member{Key: k, Value: v}
		}
		return value.ObjectValue(members...), nil
	default:
		return value.Value{}, &DecodeError{Type: fmt.Sprintf("%T", x)}
	}
}

// KeyOrder remembers the member order of the objects an execution was fed,
// so results can list members the way the input wrote them. An object whose
// key set matches an input object takes that object's order. Otherwise keys
// follow the order they were first seen anywhere in the input, and keys the
// input never held come last, sorted.
//
// A nil *KeyOrder sorts every object by key.
type KeyOrder struct {
	rank   map[string]int
	layout map[string][]string
}

// NewKeyOrder returns an empty order table.
func NewKeyOrder() *KeyOrder {
	return &KeyOrder{rank: make(map[string]int), layout: make(map[string][]string)}
}

// note records the member order of an input object.
func (o *KeyOrder) note(v value.Value) {
	if o == nil || v.Len() == 0 {
		return
	}
	keys := make([]string, v.Len())
	for i := range keys {
		m, _ := v.Member(i)
		keys[i] = m.Key
		if _, ok := o.rank[m.Key]; !ok {
			o.rank[m.Key] = len(o.rank)
		}
	}
	sig := signature(slices.Clone(keys))
	if _, ok := o.layout[sig]; !ok {
		o.layout[sig] = keys
	}
}

// keys returns the keys of m in output order.
func (o *KeyOrder) keys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if o == nil || len(keys) == 0 {
		return keys
	}
	if known, ok := o.layout[signature(slices.Clone(keys))]; ok {
		return slices.Clone(known)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, iok := o.rank[keys[i]]
		rj, jok := o.rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		default:
			return iok && !jok
		}
	})
	return keys
}

// signature identifies a key set independent of order.
func signature(keys []string) string {
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(strconv.Quote(k))
	}
	return b.String()
}
