package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubEngineReturnsCannedResult(t *testing.T) {
	e := &StubEngine{Result: []any{int64(1)}}

	got, err := e.Eval(context.Background(), "prog")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1)}, got)
	assert.Equal(t, []string{"prog"}, e.Sources())
}

func TestStubEngineReturnsCannedError(t *testing.T) {
	boom := errors.New("boom")
	e := &StubEngine{Err: boom}

	_, err := e.Eval(context.Background(), "prog")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, e.Calls())
}

func TestStubEngineHonorsCancellation(t *testing.T) {
	e := &StubEngine{Result: []any{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Eval(ctx, "prog")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStubEngineConcurrentUse(t *testing.T) {
	e := &StubEngine{Result: []any{}}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.Eval(context.Background(), "prog")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, e.Calls())
}

func TestSourcesReturnsCopy(t *testing.T) {
	e := &StubEngine{}
	_, _ = e.Eval(context.Background(), "a")

	got := e.Sources()
	got[0] = "mutated"
	assert.Equal(t, []string{"a"}, e.Sources())
}

func TestInput(t *testing.T) {
	assert.Equal(t, `{"data":"5","type":"int"}`, Input("5", "int"))
	assert.Equal(t, `{"data":[1,true],"type":"json"}`, Input([]any{1, true}, "json"))
}
