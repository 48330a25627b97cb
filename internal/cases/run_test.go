package cases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	out    string
	err    error
	inputs []string
	body   string
}

func (f *fakeExecutor) Run(ctx context.Context, inputs []string, body string) (string, error) {
	f.inputs = inputs
	f.body = body
	return f.out, f.err
}

func addCase() *Case {
	return &Case{
		Name:   "add",
		Script: "function run(a, b) {}",
		Inputs: []map[string]any{
			{"data": 2, "type": "int"},
			{"data": 3, "type": "int"},
		},
		Expect: []map[string]any{{"data": 5, "type": "json"}},
	}
}

func TestCheckPass(t *testing.T) {
	exec := &fakeExecutor{out: `[{"data":5,"type":"json"}]`}

	res := Check(context.Background(), exec, addCase())

	assert.True(t, res.Pass, res.Errors)
	assert.Equal(t, "add", res.Name)
	assert.Equal(t, []string{`{"data":2,"type":"int"}`, `{"data":3,"type":"int"}`}, exec.inputs)
	assert.Equal(t, "function run(a, b) {}", exec.body)
}

func TestCheckIntFloatEquivalent(t *testing.T) {
	exec := &fakeExecutor{out: `[{"data":5.0,"type":"json"}]`}

	res := Check(context.Background(), exec, addCase())
	assert.True(t, res.Pass, res.Errors)
}

func TestCheckMismatch(t *testing.T) {
	exec := &fakeExecutor{out: `[{"data":6,"type":"json"}]`}

	res := Check(context.Background(), exec, addCase())

	assert.False(t, res.Pass)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "output mismatch")
}

func TestCheckUnexpectedError(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("script failed: boom")}

	res := Check(context.Background(), exec, addCase())

	assert.False(t, res.Pass)
	assert.Contains(t, res.Errors[0], "run failed")
}

func TestCheckExpectError(t *testing.T) {
	c := addCase()
	c.Expect = nil
	c.ExpectError = "not supported"

	res := Check(context.Background(), &fakeExecutor{err: errors.New("type of <nil> (<nil>) is not supported.")}, c)
	assert.True(t, res.Pass, res.Errors)

	res = Check(context.Background(), &fakeExecutor{err: errors.New("other")}, c)
	assert.False(t, res.Pass)
	assert.Contains(t, res.Errors[0], `got "other"`)

	res = Check(context.Background(), &fakeExecutor{out: "[]"}, c)
	assert.False(t, res.Pass)
	assert.Contains(t, res.Errors[0], "run succeeded")
}

func TestCheckNoExpectation(t *testing.T) {
	c := addCase()
	c.Expect = nil

	res := Check(context.Background(), &fakeExecutor{out: `[{"data":"anything","type":"json"}]`}, c)
	assert.True(t, res.Pass)
}

func TestCheckAll(t *testing.T) {
	failing := addCase()
	failing.Name = "fails"
	failing.Expect = []map[string]any{{"data": 99, "type": "json"}}

	sum := CheckAll(context.Background(), &fakeExecutor{out: `[{"data":5,"type":"json"}]`}, []*Case{addCase(), failing})

	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Passed)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, "add", sum.Cases[0].Name)
	assert.False(t, sum.Cases[1].Pass)
}
