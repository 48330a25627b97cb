package script

import (
	"context"
	"fmt"
)

// Engine evaluates a complete program and returns the value of its final
// expression as a plain Go value.
type Engine interface {
	Eval(ctx context.Context, source string) (any, error)
}

// ScriptError wraps any failure raised while compiling or running a
// program: syntax errors, runtime errors and a missing run function all
// land here.
type ScriptError struct {
	// ScriptHash identifies the body that failed.
	ScriptHash string

	// Err is the interpreter's error.
	Err error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script failed: %v", e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
