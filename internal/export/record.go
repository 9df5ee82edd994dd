// Package export turns raw group member records into normalized rows and
// serializes them as xlsx workbooks held in memory.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Kind tags the variants of Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	// KindRaw holds a nested object or array as compact JSON text.
	KindRaw
)

// Value is one member field value. Member records are heterogeneous, so a
// tagged union is used instead of a fixed struct.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Raw   json.RawMessage
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IntValue returns an integer value.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// FloatValue returns a floating-point value.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// StringValue returns a text value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// RawValue returns a nested JSON value kept as raw text.
func RawValue(raw json.RawMessage) Value { return Value{Kind: KindRaw, Raw: raw} }

// Field is one key/value pair of a record.
type Field struct {
	Key   string
	Value Value
}

// Record is an order-preserving member attribute mapping. Keys keep the order
// they appeared in the source JSON; unknown fields pass through untouched.
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{index: make(map[string]int)}
}

// Get returns the value for key and whether it is present.
func (r *Record) Get(key string) (Value, bool) {
	i, ok := r.index[key]
	if !ok {
		return Value{}, false
	}
	return r.fields[i].Value, true
}

// Set replaces the value for key in place, or appends the key when absent.
func (r *Record) Set(key string, v Value) {
	if i, ok := r.index[key]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: v})
}

// Fields returns the record's fields in order. The slice is shared; callers
// must not modify it.
func (r *Record) Fields() []Field {
	return r.fields
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// ErrNotObject is returned by ParseRecord when the entry is not a JSON object.
var ErrNotObject = errors.New("member entry is not an object")

// ParseRecord decodes one member entry. The entry must be a JSON object;
// anything else returns ErrNotObject so the caller can drop it. Key order is
// preserved and scalar values are decoded into the tagged union; nested
// objects and arrays are kept as raw JSON.
func ParseRecord(data json.RawMessage) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode member entry: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	rec := NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode member key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode member field %q: %w", key, err)
		}
		rec.Set(key, parseValue(raw))
	}
	return rec, nil
}

// parseValue classifies one raw JSON value into the tagged union.
func parseValue(raw json.RawMessage) Value {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Null()
	}
	switch raw[0] {
	case '{', '[':
		return RawValue(raw)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return StringValue(s)
		}
		return RawValue(raw)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return BoolValue(b)
		}
		return RawValue(raw)
	case 'n':
		return Null()
	default:
		text := string(raw)
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return IntValue(i)
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return FloatValue(f)
		}
		return RawValue(raw)
	}
}
