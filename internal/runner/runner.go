// Package runner executes a script body against typed inputs and returns
// the typed outputs as a JSON array.
//
// A run is a straight line: decode inputs, build the program, evaluate it,
// enumerate the result, encode outputs. Any failure aborts the whole run;
// there is no partial output.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/runscript/internal/codec"
	"github.com/roach88/runscript/internal/ir"
	"github.com/roach88/runscript/internal/script"
)

// ErrResultNotList is returned when getAll() yields something other than a
// list.
var ErrResultNotList = errors.New("getAll() must return a list")

// Result is the outcome of a successful run.
type Result struct {
	// ScriptHash is the content address of the body that ran.
	ScriptHash string

	// Outputs are the encoded records in enumeration order.
	Outputs []ir.TypedValue

	// JSON is Outputs serialized as a compact JSON array.
	JSON string
}

// Runner executes scripts with a fixed engine.
// A Runner holds no per-run state and may be reused.
type Runner struct {
	engine script.Engine
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Runner that evaluates programs with engine.
func New(engine script.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes body against inputs and returns the JSON array of outputs.
func (r *Runner) Run(ctx context.Context, inputs []string, body string) (string, error) {
	res, err := r.Execute(ctx, inputs, body)
	if err != nil {
		return "", err
	}
	return res.JSON, nil
}

// Execute is Run with the structured result.
//
// Errors:
//   - *codec.InputError (wrapping codec.ErrUnknownInputType for bad tags)
//   - *script.ScriptError for program construction, syntax and runtime failures
//   - *codec.UnsupportedTypeError for outputs outside the recognized kinds
func (r *Runner) Execute(ctx context.Context, inputs []string, body string) (*Result, error) {
	scriptHash := ir.ScriptHash(body)
	log := r.logger.With("script", ir.ShortHash(scriptHash))

	args, err := codec.DecodeInputs(inputs)
	if err != nil {
		return nil, err
	}
	log.Debug("inputs decoded", "count", len(args))

	src, err := script.Program(body, args)
	if err != nil {
		return nil, &script.ScriptError{ScriptHash: scriptHash, Err: err}
	}

	result, err := r.engine.Eval(ctx, src)
	if err != nil {
		return nil, &script.ScriptError{ScriptHash: scriptHash, Err: err}
	}

	values, ok := result.([]any)
	if !ok {
		return nil, &script.ScriptError{
			ScriptHash: scriptHash,
			Err:        fmt.Errorf("%w, got %T", ErrResultNotList, result),
		}
	}
	log.Debug("script evaluated", "outputs", len(values))

	outputs, err := codec.EncodeAll(values)
	if err != nil {
		return nil, err
	}

	data, err := ir.MarshalTypedValues(outputs)
	if err != nil {
		return nil, err
	}

	return &Result{
		ScriptHash: scriptHash,
		Outputs:    outputs,
		JSON:       string(data),
	}, nil
}

// Run executes body with the default Risor engine.
func Run(ctx context.Context, inputs []string, body string) (string, error) {
	return New(script.NewRisorEngine()).Run(ctx, inputs, body)
}
