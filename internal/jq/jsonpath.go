package jq

import (
	"context"
	"strings"

	"github.com/theory/jsonpath"

	"github.com/dshills/jex/internal/value"
)

// isJSONPath reports whether text selects the JSONPath dialect. None of these
// forms parse as jq, so the two dialects never compete for the same text.
func isJSONPath(text string) bool {
	t := strings.TrimSpace(text)
	return t == "$" || strings.HasPrefix(t, "$.") || strings.HasPrefix(t, "$[")
}

func compileJSONPath(text string) (*Program, error) {
	path, err := jsonpath.Parse(strings.TrimSpace(text))
	if err != nil {
		return nil, &CompileError{Query: text, Err: err}
	}
	return &Program{
		query: text,
		run: func(_ context.Context, input any) engineIter {
			return &nodeIter{nodes: path.Select(input)}
		},
	}, nil
}

// nodeIter replays a selected node list through the engine pull protocol.
type nodeIter struct {
	nodes []any
	pos   int
}

func (it *nodeIter) Next() (any, bool) {
	if it.pos >= len(it.nodes) {
		return nil, false
	}
	n := it.nodes[it.pos]
	it.pos++
	return n, true
}

// fromValueFloat converts like encoding/json does, with float64 numbers,
// which is the number representation JSONPath filters compare against.
// Integers beyond 2^53 lose precision on this path; jq queries keep them.
func fromValueFloat(v value.Value, order *KeyOrder) any {
	switch v.Kind() {
	case value.Bool:
		return v.Bool()
	case value.Number:
		return v.Float64()
	case value.String:
		return v.Str()
	case value.Array:
		out := make([]any, v.Len())
		for i := range out {
			c, _ := v.Child(i)
			out[i] = fromValueFloat(c, order)
		}
		return out
	case value.Object:
		order.note(v)
		out := make(map[string]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			m, _ := v.Member(i)
			out[m.Key] = fromValueFloat(m.Value, order)
		}
		return out
	default:
		return nil
	}
}
