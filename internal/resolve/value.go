package resolve

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a decoded JSON tree. The zero Value is null.
//
// Numbers keep their literal text (json.Number), so integers of any size
// round-trip exactly.
type Value struct {
	raw any // nil, bool, json.Number, string, []any, map[string]any
}

// Null is the JSON null value.
var Null = Value{}

// String creates a string Value.
func String(s string) Value { return Value{raw: s} }

// Parse decodes exactly one JSON document from data. Trailing non-space
// content is an error.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Null, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Null, errors.New("invalid JSON: trailing data after top-level value")
	}
	return Value{raw: raw}, nil
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// FromInterface wraps an already decoded tree such as the result of a YAML
// or JSON unmarshal into any. Composite values go through a JSON round trip
// so numbers become json.Number.
func FromInterface(v any) (Value, error) {
	switch v.(type) {
	case nil, bool, json.Number, string:
		return Value{raw: v}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return Null, err
	}
	return Parse(data)
}

// Kind returns the variant of v.
func (v Value) Kind() Kind {
	switch v.raw.(type) {
	case bool:
		return KindBool
	case json.Number:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	}
	return KindNull
}

// Field returns the member name of an object. It reports false when v is
// not an object or has no such member.
func (v Value) Field(name string) (Value, bool) {
	obj, ok := v.raw.(map[string]any)
	if !ok {
		return Null, false
	}
	child, ok := obj[name]
	if !ok {
		return Null, false
	}
	return Value{raw: child}, true
}

// Index returns element i of an array.
func (v Value) Index(i int) (Value, bool) {
	arr, ok := v.raw.([]any)
	if !ok || i < 0 || i >= len(arr) {
		return Null, false
	}
	return Value{raw: arr[i]}, true
}

// Len returns the number of elements of an array or members of an object.
func (v Value) Len() int {
	switch t := v.raw.(type) {
	case []any:
		return len(t)
	case map[string]any:
		return len(t)
	}
	return 0
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// With returns a copy of object v with member name set to child. The
// receiver is not modified. Non-objects are returned unchanged.
func (v Value) With(name string, child Value) Value {
	obj, ok := v.raw.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(obj)+1)
	for k, val := range obj {
		out[k] = val
	}
	out[name] = child.raw
	return Value{raw: out}
}

// Map returns a copy of array v with fn applied to every element.
// Non-arrays are returned unchanged.
func (v Value) Map(fn func(Value) Value) Value {
	arr, ok := v.raw.([]any)
	if !ok {
		return v
	}
	out := make([]any, len(arr))
	for i, el := range arr {
		out[i] = fn(Value{raw: el}).raw
	}
	return Value{raw: out}
}

// Interface returns the underlying tree.
func (v Value) Interface() any {
	return v.raw
}

// CompactJSON encodes v on a single line without HTML escaping.
func (v Value) CompactJSON() (string, error) {
	return v.encode("")
}

// PrettyJSON encodes v with two-space indentation.
func (v Value) PrettyJSON() (string, error) {
	return v.encode("  ")
}

func (v Value) encode(indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v.raw); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	s, err := v.CompactJSON()
	return []byte(s), err
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
