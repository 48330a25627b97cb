package codec

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/runscript/internal/ir"
)

// DecodeFunc converts the data of an input record into the value handed
// to the script.
type DecodeFunc func(data any) (any, error)

var decoders = map[ir.Tag]DecodeFunc{
	ir.TagString: decodeString,
	ir.TagInt:    decodeInt,
	ir.TagFloat:  decodeFloat,
	ir.TagJSON:   passthrough,
	ir.TagBool:   passthrough,
}

// Decoder returns the decode function registered for tag.
func Decoder(tag ir.Tag) (DecodeFunc, bool) {
	fn, ok := decoders[tag]
	return fn, ok
}

// InputTags returns the supported input tags in sorted order.
func InputTags() []ir.Tag {
	tags := make([]ir.Tag, 0, len(decoders))
	for tag := range decoders {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Decode applies the decode function for rec.Type to rec.Data.
func Decode(rec ir.TypedValue) (any, error) {
	fn, ok := Decoder(rec.Type)
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %v)", ErrUnknownInputType, rec.Type, InputTags())
	}
	v, err := fn(rec.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", rec.Type, err)
	}
	return v, nil
}

// DecodeInput parses one raw positional argument and decodes its data.
func DecodeInput(raw string) (any, error) {
	rec, err := ParseInput(raw)
	if err != nil {
		return nil, err
	}
	return Decode(rec)
}

// DecodeInputs decodes every raw argument in order. The first failure is
// returned as an *InputError carrying its position.
func DecodeInputs(raw []string) ([]any, error) {
	values := make([]any, 0, len(raw))
	for i, arg := range raw {
		v, err := DecodeInput(arg)
		if err != nil {
			return nil, &InputError{Index: i, Input: arg, Err: err}
		}
		values = append(values, v)
	}
	return values, nil
}

func passthrough(data any) (any, error) {
	return data, nil
}

// decodeString renders scalars in their plain text form and containers as
// compact JSON. Floats keep their float form, so 2.0 becomes "2.0".
func decodeString(data any) (any, error) {
	switch d := data.(type) {
	case string:
		return d, nil
	case int64:
		return strconv.FormatInt(d, 10), nil
	case float64:
		return ir.FormatFloat(d), nil
	case bool:
		return strconv.FormatBool(d), nil
	case nil:
		return "null", nil
	default:
		b, err := ir.MarshalJSON(d)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %T to string: %w", data, err)
		}
		return string(b), nil
	}
}

// decodeInt truncates floats toward zero and parses decimal strings.
func decodeInt(data any) (any, error) {
	switch d := data.(type) {
	case int64:
		return d, nil
	case float64:
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return nil, fmt.Errorf("cannot convert %v to int", d)
		}
		t := math.Trunc(d)
		if t < math.MinInt64 || t >= math.MaxInt64 {
			return nil, fmt.Errorf("%v overflows int", d)
		}
		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(d), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal for int: %q", d)
		}
		return n, nil
	case bool:
		if d {
			return int64(1), nil
		}
		return int64(0), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to int", data)
	}
}

// decodeFloat accepts numbers, numeric strings and booleans. NaN and the
// infinities are rejected: they have no literal form in a script or in JSON.
func decodeFloat(data any) (any, error) {
	f, err := toFloat(data)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("non-finite float %v is not supported", f)
	}
	return f, nil
}

func toFloat(data any) (float64, error) {
	switch d := data.(type) {
	case float64:
		return d, nil
	case int64:
		return float64(d), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(d), 64)
		if err != nil {
			return 0, fmt.Errorf("could not convert string to float: %q", d)
		}
		return f, nil
	case bool:
		if d {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float", data)
	}
}
