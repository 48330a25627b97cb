// Package testutil holds shared test doubles for the runscript packages.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// StubEngine is a script engine that returns a canned result and records
// every program it was asked to evaluate.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StubEngine struct {
	Result any
	Err    error

	mu      sync.Mutex
	sources []string
}

// Eval records source and returns the canned Result and Err.
func (e *StubEngine) Eval(ctx context.Context, source string) (any, error) {
	e.mu.Lock()
	e.sources = append(e.sources, source)
	e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.Result, e.Err
}

// Sources returns a copy of the programs evaluated so far.
func (e *StubEngine) Sources() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.sources...)
}

// Calls returns how many programs were evaluated.
func (e *StubEngine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sources)
}

// Input renders a {data, type} record as a command line argument.
// Panics if data cannot be marshaled; tests pass literal values.
func Input(data any, tag string) string {
	b, err := json.Marshal(map[string]any{"data": data, "type": tag})
	if err != nil {
		panic(fmt.Sprintf("testutil.Input: %v", err))
	}
	return string(b)
}
