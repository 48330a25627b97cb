package codec

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/runscript/internal/ir"
)

// envelopeSchema is the shape every positional input must unify with.
// The struct is open: extra fields are ignored, as they always were.
const envelopeSchema = `{
	data: _
	type: string
}`

// ParseInput parses a raw {"data": ..., "type": ...} argument.
//
// The argument is read with CUE's JSON extractor, which keeps the
// distinction between 2 and 2.0 that a plain float64 decode would lose.
// Integers come back as int64, fractions and exponents as float64.
func ParseInput(raw string) (ir.TypedValue, error) {
	expr, err := cuejson.Extract("input", []byte(raw))
	if err != nil {
		return ir.TypedValue{}, fmt.Errorf("malformed input JSON: %w", formatCUEError(err))
	}

	ctx := cuecontext.New()
	v := ctx.BuildExpr(expr)
	if err := v.Err(); err != nil {
		return ir.TypedValue{}, fmt.Errorf("malformed input JSON: %w", formatCUEError(err))
	}
	if v.Kind() != cue.StructKind {
		return ir.TypedValue{}, fmt.Errorf("input must be a JSON object, got %s", v.Kind())
	}

	v = ctx.CompileString(envelopeSchema).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return ir.TypedValue{}, fmt.Errorf("invalid input record: %w", formatCUEError(err))
	}

	tag, err := v.LookupPath(cue.ParsePath("type")).String()
	if err != nil {
		return ir.TypedValue{}, fmt.Errorf("invalid input type: %w", formatCUEError(err))
	}

	data, err := goValue(v.LookupPath(cue.ParsePath("data")))
	if err != nil {
		return ir.TypedValue{}, fmt.Errorf("invalid input data: %w", err)
	}

	return ir.TypedValue{Data: data, Type: ir.Tag(tag)}, nil
}

// goValue converts a concrete CUE value into plain Go values:
// nil, bool, int64, float64, string, []any and map[string]any.
func goValue(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.BoolKind:
		return v.Bool()
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("integer out of range: %w", formatCUEError(err))
		}
		return n, nil
	case cue.FloatKind:
		return v.Float64()
	case cue.StringKind:
		return v.String()
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		items := []any{}
		for iter.Next() {
			item, err := goValue(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", len(items), err)
			}
			items = append(items, item)
		}
		return items, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		obj := map[string]any{}
		for iter.Next() {
			key := iter.Selector().Unquoted()
			field, err := goValue(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", key, err)
			}
			obj[key] = field
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %s", v.Kind())
	}
}

// formatCUEError flattens CUE's multi-error into a single readable error.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) <= 1 {
		return err
	}
	return fmt.Errorf("%s (and %d more errors)", errs[0].Error(), len(errs)-1)
}
