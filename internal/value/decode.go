package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrDecode is the sentinel matched by every DecodeError.
var ErrDecode = errors.New("malformed JSON")

// DecodeError reports malformed JSON input.
type DecodeError struct {
	Offset int64 // byte offset where decoding stopped
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("decode: at byte %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is matches ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ReadError wraps a failure of the underlying reader, as opposed to malformed input.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return "read: " + e.Err.Error() }
func (e *ReadError) Unwrap() error { return e.Err }

// sourceReader remembers failures of the underlying stream.
type sourceReader struct {
	r   io.Reader
	err error
}

func (c *sourceReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if err != nil && err != io.EOF {
		c.err = err
	}
	return n, err
}

// Decode reads a stream of whitespace-separated JSON texts and returns them
// in order. Object member order is preserved.
func Decode(r io.Reader) ([]Value, error) {
	cr := &sourceReader{r: r}
	dec := json.NewDecoder(cr)
	dec.UseNumber()

	var out []Value
	for {
		v, err := decodeValue(dec)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			if cr.err != nil {
				return nil, &ReadError{Err: cr.err}
			}
			if err == io.ErrUnexpectedEOF {
				err = errors.New("unexpected end of input")
			}
			return nil, &DecodeError{Offset: dec.InputOffset(), Err: err}
		}
		out = append(out, v)
	}
}

// DecodeBytes decodes an in-memory stream of JSON texts.
func DecodeBytes(data []byte) ([]Value, error) {
	return Decode(bytes.NewReader(data))
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return fromToken(dec, tok)
}

func fromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return NumberValue(t.String()), nil
	case string:
		return StringValue(t), nil
	case json.Delim:
		switch t {
		case '[':
			var items []Value
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, unexpectedEOF(err)
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, unexpectedEOF(err)
			}
			if items == nil {
				items = []Value{}
			}
			return arrayOwned(items), nil
		case '{':
			var members []Member
			index := make(map[string]int)
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, unexpectedEOF(err)
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is %v, not a string", kt)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, unexpectedEOF(err)
				}
				// Duplicate keys: last value wins, first position is kept.
				if i, dup := index[key]; dup {
					members[i].Value = v
					continue
				}
				index[key] = len(members)
				members = append(members, Member{Key: key, Value: v})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, unexpectedEOF(err)
			}
			if members == nil {
				members = []Member{}
			}
			return objectOwned(members), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
