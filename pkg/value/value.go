// Package value implements the scalar domain of tuple attributes: text, boolean and signed 64-bit
// integer values, tuples of values, and the canonical keys used to group and deduplicate tuples.
package value

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind is the variant tag of a Value. Values of different kinds order by their kind first.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a scalar tuple attribute. The zero Value is the empty string.
//
// Values are comparable with == and can be used as map keys directly.
type Value struct {
	kind Kind
	str  string
	b    bool
	num  int64
}

// String returns a text value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(n int64) Value { return Value{kind: KindInt, num: n} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the payload of a text value.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsBool returns the payload of a boolean value.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the payload of an integer value.
func (v Value) AsInt() (int64, bool) { return v.num, v.kind == KindInt }

// Compare orders values structurally: by kind (string < bool < int), then by payload (false < true).
func Compare(a, b Value) int {
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	switch a.kind {
	case KindString:
		return cmp.Compare(a.str, b.str)
	case KindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	default:
		return cmp.Compare(a.num, b.num)
	}
}

// Less reports whether v orders strictly before o.
func (v Value) Less(o Value) bool { return Compare(v, o) < 0 }

// String renders the value for logs and diagrams.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return strconv.FormatInt(v.num, 10)
	}
}

// appendKey writes an unambiguous encoding of the value, used for tuple keys.
func (v Value) appendKey(buf []byte) []byte {
	switch v.kind {
	case KindString:
		buf = append(buf, 's')
		return strconv.AppendQuote(buf, v.str)
	case KindBool:
		if v.b {
			return append(buf, 'T')
		}
		return append(buf, 'F')
	default:
		buf = append(buf, 'i')
		return strconv.AppendInt(buf, v.num, 10)
	}
}

// MarshalJSON encodes a value as the natural JSON scalar of its kind.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.num)
	}
}

// UnmarshalJSON decodes a JSON string, boolean or integer. Fractional numbers, null, arrays and
// objects are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch x := raw.(type) {
	case string:
		*v = String(x)
	case bool:
		*v = Bool(x)
	case json.Number:
		n, err := strconv.ParseInt(x.String(), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value %s: only 64-bit integers are supported", x)
		}
		*v = Int(n)
	default:
		return fmt.Errorf("invalid value %s: expected a string, a bool or an integer", string(data))
	}

	return nil
}
