package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by ParseJSON when the input is not valid JSON.
var ErrInvalidJSON = errors.New("invalid JSON document")

// Kind identifies which member of the Value union is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "null"
	}
}

// Field is one key/value pair of a map Value. Maps are kept as ordered
// field slices so that iteration follows the source document.
type Field struct {
	Key   string
	Value Value
}

// Value is a scraped, loosely-typed JSON value. The zero Value is null.
//
// Numbers remember the literal they were decoded from, so "12.0" and "12"
// render differently when a value is turned back into text.
type Value struct {
	kind   Kind
	b      bool
	num    float64
	text   string
	list   []Value
	fields []Field
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Number wraps a float. Non-finite floats become null.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, num: f, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// List wraps a sequence of values.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// Map wraps an ordered set of fields.
func Map(fields ...Field) Value {
	if fields == nil {
		fields = []Field{}
	}
	return Value{kind: KindMap, fields: fields}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) IsMap() bool { return v.kind == KindMap }

func (v Value) IsList() bool { return v.kind == KindList }

// Items returns the elements of a list Value.
func (v Value) Items() []Value { return v.list }

// Fields returns the fields of a map Value in document order.
func (v Value) Fields() []Field { return v.fields }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// Float returns the numeric payload and whether v is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Get returns the value stored under key (exact match) in a map Value.
// When a key repeats, the last occurrence wins.
func (v Value) Get(key string) (Value, bool) {
	var (
		found Value
		ok    bool
	)
	for _, f := range v.fields {
		if f.Key == key {
			found, ok = f.Value, true
		}
	}
	return found, ok
}

// Truthy reports whether v would count as "present" in a loose sense:
// null, false, zero, "" and empty containers are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num != 0
	case KindString:
		return v.text != ""
	case KindList:
		return len(v.list) > 0
	case KindMap:
		return len(v.fields) > 0
	default:
		return false
	}
}

// Text renders v as plain text. Strings are returned as-is, numbers keep
// their source literal and containers are rendered as compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString, KindNumber:
		return v.text
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// MarshalJSON writes v back out preserving map order and number literals.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes data with ParseJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.text)
	case KindString:
		return encodeString(buf, v.text)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, f := range v.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, f.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encoder terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// ParseJSON decodes a JSON document into a Value, keeping object keys in
// document order.
func ParseJSON(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Null(), ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		if math.IsNaN(r.Num) || math.IsInf(r.Num, 0) {
			return Null()
		}
		return Value{kind: KindNumber, num: r.Num, text: r.Raw}
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			items := make([]Value, 0)
			r.ForEach(func(_, item gjson.Result) bool {
				items = append(items, fromResult(item))
				return true
			})
			return List(items...)
		}
		fields := make([]Field, 0)
		r.ForEach(func(key, item gjson.Result) bool {
			fields = append(fields, Field{Key: key.Str, Value: fromResult(item)})
			return true
		})
		return Map(fields...)
	default:
		return Null()
	}
}
