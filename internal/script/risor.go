package script

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/risor/v2"
	"github.com/deepnoodle-ai/risor/v2/pkg/object"
)

// RisorEngine evaluates programs with the Risor interpreter.
//
// The environment holds Risor's standard builtins and its pure modules
// (math, rand, regexp). There are no I/O modules, so a script can compute
// but cannot touch files, the network or other processes.
type RisorEngine struct{}

// NewRisorEngine returns the default engine.
func NewRisorEngine() *RisorEngine {
	return &RisorEngine{}
}

// Eval runs source and converts the result into plain Go values.
func (e *RisorEngine) Eval(ctx context.Context, source string) (any, error) {
	result, err := risor.Eval(ctx, source,
		risor.WithEnv(risor.Builtins()),
		risor.WithRawResult(),
	)
	if err != nil {
		return nil, err
	}
	obj, ok := result.(object.Object)
	if !ok {
		return nil, fmt.Errorf("risor returned %T, want an object", result)
	}
	return fromRisor(obj), nil
}

// Foreign is a Risor value with no plain Go form: a function, module,
// byte string, time and so on. It is passed through unchanged so the output
// encoder can reject it by name.
type Foreign struct {
	Object object.Object
}

// String renders the value the way Risor prints it.
func (f Foreign) String() string {
	return fmt.Sprint(f.Object)
}

// TypeName names the Risor type, e.g. "risor function".
func (f Foreign) TypeName() string {
	return "risor " + string(f.Object.Type())
}

// fromRisor unwraps interpreter objects recursively. Lists become []any,
// maps map[string]any, numbers int64 or float64 and nil nil. Anything else
// comes back as a Foreign.
func fromRisor(obj object.Object) any {
	switch o := obj.(type) {
	case *object.NilType:
		return nil
	case *object.Bool:
		return o.Value()
	case *object.Int:
		return o.Value()
	case *object.Float:
		return o.Value()
	case *object.String:
		return o.Value()
	case *object.List:
		items := o.Value()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = fromRisor(item)
		}
		return out
	case *object.Map:
		items := o.Value()
		out := make(map[string]any, len(items))
		for k, item := range items {
			out[k] = fromRisor(item)
		}
		return out
	default:
		return Foreign{Object: obj}
	}
}
