package conversation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Value is a decoded JSON value. The concrete types are Null, String,
// Number, Bool, *List and *Dict; no other type implements Value.
type Value interface {
	isValue()
}

// Null is the JSON null literal.
type Null struct{}

// String is a JSON string.
type String string

// Number is a JSON number, kept as its literal text.
type Number string

// Bool is a JSON boolean.
type Bool bool

// List is a JSON array. Lists are handled by pointer so that identity can be
// tracked while walking possibly self-referential values.
type List struct {
	Items []Value
}

// Dict is a JSON object that remembers key insertion order.
type Dict struct {
	keys   []string
	fields map[string]Value
}

func (Null) isValue()   {}
func (String) isValue() {}
func (Number) isValue() {}
func (Bool) isValue()   {}
func (*List) isValue()  {}
func (*Dict) isValue()  {}

// NewList returns a list holding items.
func NewList(items ...Value) *List {
	return &List{Items: items}
}

// NewDict returns an empty dict.
func NewDict() *Dict {
	return &Dict{fields: make(map[string]Value)}
}

// Set stores v under key. A key that already exists keeps its position.
func (d *Dict) Set(key string, v Value) *Dict {
	if _, ok := d.fields[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.fields[key] = v
	return d
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.fields[key]
	return v, ok
}

// Keys returns keys in insertion order.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.keys...)
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// GetString returns the field as a string when it holds one.
func (d *Dict) GetString(key string) (string, bool) {
	v, _ := d.Get(key)
	s, ok := v.(String)
	return string(s), ok
}

// GetDict returns the field as a dict when it holds one.
func (d *Dict) GetDict(key string) (*Dict, bool) {
	v, _ := d.Get(key)
	sub, ok := v.(*Dict)
	return sub, ok && sub != nil
}

// GetList returns the field as a list when it holds one.
func (d *Dict) GetList(key string) (*List, bool) {
	v, _ := d.Get(key)
	l, ok := v.(*List)
	return l, ok && l != nil
}

// Float64 parses the literal.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// String formats the number the way JavaScript prints numbers: shortest
// round-trip digits, exponent form only below 1e-6 or from 1e21 up.
func (n Number) String() string {
	f, err := n.Float64()
	if err != nil {
		return string(n)
	}
	return formatNumber(f)
}

func formatNumber(f float64) string {
	switch {
	case f == 0:
		return "0"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// maxDepth bounds nesting while decoding.
const maxDepth = 10000

var errTooDeep = errors.New("exceeded max nesting depth")

// DecodeValue reads exactly one JSON value from r. Object key order is kept
// and numbers keep their literal text.
func DecodeValue(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeNext(dec, 0)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("unexpected data after top-level value")
		}
		return nil, err
	}
	return v, nil
}

// ParseValue decodes a single JSON value from data.
func ParseValue(data []byte) (Value, error) {
	return DecodeValue(bytes.NewReader(data))
}

func decodeNext(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		if depth >= maxDepth {
			return nil, errTooDeep
		}
		switch t {
		case '[':
			l := &List{}
			for dec.More() {
				item, err := decodeNext(dec, depth+1)
				if err != nil {
					return nil, err
				}
				l.Items = append(l.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return l, nil
		case '{':
			d := NewDict()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", kt)
				}
				v, err := decodeNext(dec, depth+1)
				if err != nil {
					return nil, err
				}
				d.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return d, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	}
	return nil, fmt.Errorf("unexpected token %T", tok)
}

var errCyclicValue = errors.New("value contains a cycle")

// Stringify renders v as compact JSON with keys in insertion order. Values
// that reference themselves cannot be rendered and return an error.
func Stringify(v Value) (string, error) {
	var buf bytes.Buffer
	w := jsonWriter{buf: &buf, active: make(map[any]struct{})}
	if err := w.write(v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type jsonWriter struct {
	buf    *bytes.Buffer
	active map[any]struct{} // containers currently being written
}

func (w jsonWriter) write(v Value) error {
	switch v := v.(type) {
	case nil, Null:
		w.buf.WriteString("null")
	case String:
		writeQuoted(w.buf, string(v))
	case Number:
		f, err := v.Float64()
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			w.buf.WriteString("null")
			return nil
		}
		w.buf.WriteString(formatNumber(f))
	case Bool:
		w.buf.WriteString(strconv.FormatBool(bool(v)))
	case *List:
		if v == nil {
			w.buf.WriteString("null")
			return nil
		}
		if _, ok := w.active[v]; ok {
			return errCyclicValue
		}
		w.active[v] = struct{}{}
		defer delete(w.active, v)

		w.buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			if err := w.write(item); err != nil {
				return err
			}
		}
		w.buf.WriteByte(']')
	case *Dict:
		if v == nil {
			w.buf.WriteString("null")
			return nil
		}
		if _, ok := w.active[v]; ok {
			return errCyclicValue
		}
		w.active[v] = struct{}{}
		defer delete(w.active, v)

		w.buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			writeQuoted(w.buf, k)
			w.buf.WriteByte(':')
			if err := w.write(v.fields[k]); err != nil {
				return err
			}
		}
		w.buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported value %T", v)
	}
	return nil
}

// writeQuoted escapes only what JSON requires; non-ASCII text is kept as is.
func writeQuoted(buf *bytes.Buffer, s string) {
	const hex = "0123456789abcdef"
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hex[r>>4])
				buf.WriteByte(hex[r&0xF])
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

// MarshalJSON implements json.Marshaler.
func (d *Dict) MarshalJSON() ([]byte, error) {
	s, err := Stringify(d)
	return []byte(s), err
}

// MarshalJSON implements json.Marshaler.
func (l *List) MarshalJSON() ([]byte, error) {
	s, err := Stringify(l)
	return []byte(s), err
}
