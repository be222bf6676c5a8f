package value

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStream(t *testing.T) {
	values, err := DecodeBytes([]byte(`{"b": 1, "a": [true, null]} "x"
	3.50 []`))
	require.NoError(t, err)
	require.Len(t, values, 4)

	obj := values[0]
	assert.Equal(t, Object, obj.Kind())
	m0, _ := obj.Member(0)
	m1, _ := obj.Member(1)
	assert.Equal(t, "b", m0.Key)
	assert.Equal(t, "a", m1.Key)

	assert.Equal(t, "x", values[1].Str())
	assert.Equal(t, "3.50", values[2].Literal())
	assert.Equal(t, Array, values[3].Kind())
	assert.Equal(t, 0, values[3].Len())
}

func TestDecodeEmptyStream(t *testing.T) {
	values, err := DecodeBytes([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []string{
		`{"a": }`,
		`[1, 2`,
		`{"a" 1}`,
		`tru`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := DecodeBytes([]byte(input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecode), "got %v", err)
		})
	}
}

func TestDecodeReadFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := Decode(iotest.ErrReader(boom))
	require.Error(t, err)
	var rerr *ReadError
	require.True(t, errors.As(err, &rerr))
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrDecode))
}

func TestDecodeDuplicateKeys(t *testing.T) {
	values, err := DecodeBytes([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)
	require.Equal(t, 2, values[0].Len())
	a, _ := values[0].Lookup("a")
	assert.Equal(t, "3", a.Literal())
	m0, _ := values[0].Member(0)
	assert.Equal(t, "a", m0.Key)
}

func TestEqual(t *testing.T) {
	a := ObjectValue(Member{"x", IntValue(1)}, Member{"y", StringValue("s")})
	b := ObjectValue(Member{"y", StringValue("s")}, Member{"x", NumberValue("1.0")})
	assert.True(t, a.Equal(b))

	c := ObjectValue(Member{"x", IntValue(2)}, Member{"y", StringValue("s")})
	assert.False(t, a.Equal(c))

	assert.True(t, ArrayValue(NullValue(), BoolValue(true)).Equal(ArrayValue(NullValue(), BoolValue(true))))
	assert.False(t, ArrayValue(IntValue(1), IntValue(2)).Equal(ArrayValue(IntValue(2), IntValue(1))))
	assert.False(t, StringValue("1").Equal(IntValue(1)))
	assert.True(t, NumberValue("1e2").Equal(IntValue(100)))
}

func TestImmutableConstructors(t *testing.T) {
	items := []Value{IntValue(1), IntValue(2)}
	arr := ArrayValue(items...)
	items[0] = StringValue("changed")
	first, _ := arr.Child(0)
	assert.Equal(t, "1", first.Literal())

	copied := arr.Items()
	copied[1] = NullValue()
	second, _ := arr.Child(1)
	assert.Equal(t, "2", second.Literal())
}

func TestPathOrder(t *testing.T) {
	paths := []Path{{0}, {0, 0}, {0, 0, 3}, {0, 1}, {1}, {1, 0}}
	for i := 0; i+1 < len(paths); i++ {
		assert.Equal(t, -1, Compare(paths[i], paths[i+1]), "%v < %v", paths[i], paths[i+1])
		assert.Equal(t, 1, Compare(paths[i+1], paths[i]))
	}
	assert.True(t, Path{0, 1, 2}.IsDescendantOf(Path{0, 1}))
	assert.False(t, Path{0, 1}.IsDescendantOf(Path{0, 1}))
	assert.True(t, Path{0, 1}.HasPrefix(Path{0, 1}))
	assert.Equal(t, Path{0, 1}, Path{0, 1, 2}.Parent())
	assert.Nil(t, Path{3}.Parent())
	assert.Equal(t, "0/1/2", Path{0, 1, 2}.Key())
}

func TestAtAndQuery(t *testing.T) {
	set, err := DecodeBytes([]byte(`{"items": [{"name": "a"}, {"odd key": 2}]}`))
	require.NoError(t, err)

	v, ok := At(set, Path{0, 0, 1, 0})
	require.True(t, ok)
	assert.Equal(t, "2", v.Literal())

	_, ok = At(set, Path{0, 5})
	assert.False(t, ok)

	assert.Equal(t, ".items[0].name", Query(set, Path{0, 0, 0, 0}))
	assert.Equal(t, `.items[1]["odd key"]`, Query(set, Path{0, 0, 1, 0}))
	assert.Equal(t, ".", Query(set, Path{0}))

	arrays, err := DecodeBytes([]byte(`[[1]] 2`))
	require.NoError(t, err)
	assert.Equal(t, "#0 .[0][0]", Query(arrays, Path{0, 0, 0}))
}

func TestWriteJSONRoundTrip(t *testing.T) {
	input := `{"z": [1, 2.5, "<tag>"], "a": {"nested": null}, "e": {}} [] "two"`
	values, err := DecodeBytes([]byte(input))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, values))
	assert.Contains(t, buf.String(), "<tag>")

	again, err := DecodeBytes(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, again, len(values))
	for i := range values {
		assert.True(t, values[i].Equal(again[i]))
	}
	first, _ := again[0].Member(0)
	assert.Equal(t, "z", first.Key)
}

func TestWriteYAML(t *testing.T) {
	values, err := DecodeBytes([]byte(`{"b": "true", "a": [1, 2.5], "c": {}} 7`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, values))
	out := buf.String()
	assert.Less(t, strings.Index(out, "b:"), strings.Index(out, "a:"))
	assert.Regexp(t, `["']true["']`, out)
	assert.Contains(t, out, "---")
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.5", FormatFloat(1.5))
	assert.Equal(t, "100", FormatFloat(100))
	assert.Equal(t, "1e+21", FormatFloat(1e21))
	assert.Equal(t, "1e-07", FormatFloat(1e-7))
	assert.Equal(t, "null", FormatFloat(math.NaN()))
}
