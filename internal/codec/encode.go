package codec

import (
	"math"

	"github.com/roach88/runscript/internal/ir"
)

// EncodeFunc converts an output value into the data written for it.
type EncodeFunc func(v any) any

type encoder struct {
	tag    ir.Tag
	encode EncodeFunc
}

func identity(v any) any { return v }

var encoders = map[ir.Kind]encoder{
	ir.KindString: {tag: ir.TagJSON, encode: identity},
	ir.KindInt:    {tag: ir.TagJSON, encode: identity},
	ir.KindFloat:  {tag: ir.TagJSON, encode: identity},
	ir.KindDict:   {tag: ir.TagJSON, encode: identity},
	ir.KindList:   {tag: ir.TagJSON, encode: identity},
	ir.KindBool:   {tag: ir.TagJSON, encode: identity},
}

// Encode turns one output value into its record, dispatching on the
// value's runtime kind. NaN and the infinities, at any depth, are
// unsupported: JSON cannot carry them.
func Encode(v any) (ir.TypedValue, error) {
	enc, ok := encoders[ir.KindOf(v)]
	if !ok {
		return ir.TypedValue{}, &UnsupportedTypeError{Value: v}
	}
	if bad, found := nonFinite(v); found {
		return ir.TypedValue{}, &UnsupportedTypeError{Value: bad}
	}
	return ir.TypedValue{Data: enc.encode(v), Type: enc.tag}, nil
}

// nonFinite returns the first NaN or infinite float inside v.
func nonFinite(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, math.IsNaN(val) || math.IsInf(val, 0)
	case float32:
		return nonFinite(float64(val))
	case []any:
		for _, item := range val {
			if f, ok := nonFinite(item); ok {
				return f, true
			}
		}
	case map[string]any:
		for _, k := range ir.SortedKeys(val) {
			if f, ok := nonFinite(val[k]); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// EncodeAll encodes outputs in order. It fails on the first unsupported
// value; there is no partial result.
func EncodeAll(values []any) ([]ir.TypedValue, error) {
	out := make([]ir.TypedValue, 0, len(values))
	for _, v := range values {
		rec, err := Encode(v)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
