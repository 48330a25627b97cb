package codec

import (
	"errors"
	"fmt"
)

// ErrUnknownInputType is returned when an input declares a tag that has no
// decode function.
var ErrUnknownInputType = errors.New("unknown input type")

// InputError reports a failure to parse or decode one positional input.
type InputError struct {
	// Index is the zero-based position of the input.
	Index int

	// Input is the raw argument as received.
	Input string

	// Err is the underlying cause.
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %d: %v", e.Index, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError is returned when a script produces a value whose
// runtime kind has no encoder.
type UnsupportedTypeError struct {
	Value any
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("type of %v (%s) is not supported.", e.Value, typeName(e.Value))
}

// typeName prefers a value's own type name, so interpreter objects read
// as "risor function" rather than a Go wrapper type.
func typeName(v any) string {
	if named, ok := v.(interface{ TypeName() string }); ok {
		return named.TypeName()
	}
	return fmt.Sprintf("%T", v)
}
