package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tag is the type label carried by a TypedValue.
type Tag string

// Input tags. Outputs only ever carry TagJSON.
const (
	TagString Tag = "string"
	TagInt    Tag = "int"
	TagFloat  Tag = "float"
	TagJSON   Tag = "json"
	TagBool   Tag = "bool"
)

// TypedValue pairs a value with the tag that says how to interpret it.
// Field order matters: records serialize as {"data": ..., "type": ...}.
type TypedValue struct {
	Data any `json:"data"`
	Type Tag `json:"type"`
}

// Kind is the runtime category of a value produced by a script.
type Kind int

const (
	// KindUnsupported covers everything outside the recognized set:
	// nil, functions, structs, channels and so on.
	KindUnsupported Kind = iota
	KindString
	KindInt
	KindFloat
	KindDict
	KindList
	KindBool
)

var kindNames = map[Kind]string{
	KindUnsupported: "unsupported",
	KindString:      "string",
	KindInt:         "int",
	KindFloat:       "float",
	KindDict:        "dict",
	KindList:        "list",
	KindBool:        "bool",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindOf reports the runtime kind of v.
// Dicts must have string keys and lists must be []any; typed Go slices and
// maps are not script values and report KindUnsupported.
func KindOf(v any) Kind {
	switch v.(type) {
	case string:
		return KindString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case map[string]any:
		return KindDict
	case []any:
		return KindList
	case bool:
		return KindBool
	default:
		return KindUnsupported
	}
}

// MarshalTypedValues serializes records as a compact JSON array.
// HTML characters are not escaped, a nil slice encodes as [] and floats
// keep their float form (2.0, not 2).
func MarshalTypedValues(vals []TypedValue) ([]byte, error) {
	out := make([]TypedValue, len(vals))
	for i, tv := range vals {
		data, err := floatsAsNumbers(tv.Data)
		if err != nil {
			return nil, fmt.Errorf("marshal typed values: [%d]: %w", i, err)
		}
		out[i] = TypedValue{Data: data, Type: tv.Type}
	}
	return marshalCompact(out)
}

// MarshalJSON serializes v as compact JSON with the same float and HTML
// rules as MarshalTypedValues.
func MarshalJSON(v any) ([]byte, error) {
	data, err := floatsAsNumbers(v)
	if err != nil {
		return nil, err
	}
	return marshalCompact(data)
}

func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal typed values: %w", err)
	}

	// json.Encoder adds trailing newline, remove it
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// FormatFloat renders f so it reads back as a float: integral values get a
// ".0" suffix, and the exponent form is used below 1e-4 and from 1e16 up.
func FormatFloat(f float64) string {
	if f != 0 {
		if abs := math.Abs(f); abs < 1e-4 || abs >= 1e16 {
			return strconv.FormatFloat(f, 'e', -1, 64)
		}
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// floatsAsNumbers copies v, replacing each float with a json.Number
// rendered by FormatFloat. Non-finite floats have no JSON form.
func floatsAsNumbers(v any) (any, error) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("non-finite float %v", val)
		}
		return json.Number(FormatFloat(val)), nil
	case float32:
		return floatsAsNumbers(float64(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			conv, err := floatsAsNumbers(item)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			conv, err := floatsAsNumbers(item)
			if err != nil {
				return nil, err
			}
			out[k] = conv
		}
		return out, nil
	default:
		return v, nil
	}
}

// UnmarshalTypedValues parses a JSON array of records.
// Numbers are decoded as json.Number so integers survive the trip.
func UnmarshalTypedValues(data []byte) ([]TypedValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var vals []TypedValue
	if err := dec.Decode(&vals); err != nil {
		return nil, fmt.Errorf("unmarshal typed values: %w", err)
	}
	if vals == nil {
		vals = []TypedValue{}
	}
	return vals, nil
}
