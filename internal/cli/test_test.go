package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/runscript/internal/testutil"
)

func executeTest(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

const passingCase = `name: passing
script: x
inputs:
  - {data: "a", type: string}
expect:
  - {data: "a", type: json}
`

const failingCase = `name: failing
script: x
inputs:
  - {data: "a", type: string}
expect:
  - {data: "b", type: json}
`

func TestTestCommandRisorCases(t *testing.T) {
	out, err := executeTest(t, &RootOptions{Format: "text"}, filepath.Join("testdata", "cases"))
	require.NoError(t, err, out)

	assert.Contains(t, out, "✓ add")
	assert.Contains(t, out, "✓ echo json")
	assert.Contains(t, out, "✓ unknown input type")
	assert.Contains(t, out, "Test Summary: 3 passed, 0 failed, 3 total")
	assert.Contains(t, out, "All cases passed")
}

func TestTestCommandFailureExitCode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_pass.yaml", passingCase)
	writeFile(t, dir, "b_fail.yaml", failingCase)
	engine := &testutil.StubEngine{Result: []any{"a"}}

	out, err := executeTest(t, &RootOptions{Format: "text", Engine: engine}, dir)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "1 case(s) failed")
	assert.Contains(t, out, "✓ passing")
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
	assert.Equal(t, 2, engine.Calls())
}

func TestTestCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fail.yaml", failingCase)
	engine := &testutil.StubEngine{Err: errors.New("boom")}

	out, err := executeTest(t, &RootOptions{Format: "json", Engine: engine}, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Cases []struct {
				Name   string   `json:"name"`
				Pass   bool     `json:"pass"`
				Errors []string `json:"errors"`
			} `json:"cases"`
			Failed int `json:"failed"`
			Total  int `json:"total"`
		} `json:"data"`
		Error *CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Cases, 1)
	assert.False(t, resp.Data.Cases[0].Pass)
	assert.Contains(t, resp.Data.Cases[0].Errors[0], "boom")
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, err := executeTest(t, &RootOptions{Format: "text"}, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No cases found.")

	out, err = executeTest(t, &RootOptions{Format: "json"}, t.TempDir())
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestTestCommandMissingDir(t *testing.T) {
	_, err := executeTest(t, &RootOptions{Format: "text"}, filepath.Join(t.TempDir(), "nope"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cases directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandBadCaseFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "typo.yaml", "name: x\nscript: y\nexpects: []\n")

	_, err := executeTest(t, &RootOptions{Format: "text"}, dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "typo.yaml")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
