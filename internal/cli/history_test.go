package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/runscript/internal/ir"
	"github.com/roach88/runscript/internal/journal"
)

// seedJournal writes runs for scriptA (ok, ok) and scriptB (error).
func seedJournal(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	st, err := journal.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	for _, r := range []struct {
		id, script, outputs string
		err                 error
	}{
		{"run-1", "scriptA", `[{"data":1,"type":"json"}]`, nil},
		{"run-2", "scriptB", "", errors.New("boom")},
		{"run-3", "scriptA", `[{"data":2,"type":"json"}]`, nil},
	} {
		run, err := journal.NewRun(r.id, r.script, []string{`{"data":1,"type":"int"}`}, r.outputs, r.err)
		require.NoError(t, err)
		_, err = st.WriteRun(ctx, run)
		require.NoError(t, err)
	}
	return dbPath
}

func executeHistory(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestHistoryListText(t *testing.T) {
	dbPath := seedJournal(t)

	out, err := executeHistory(t, &RootOptions{Format: "text"}, "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Runs: 3 shown, 3 total")
	assert.Contains(t, out, "[3] run-3 ok")
	assert.Contains(t, out, "[2] run-2 error")
	assert.Contains(t, out, "error=boom")
	assert.Less(t, bytes.Index([]byte(out), []byte("run-3")), bytes.Index([]byte(out), []byte("run-1")), "newest first")
}

func TestHistoryListJSON(t *testing.T) {
	dbPath := seedJournal(t)

	out, err := executeHistory(t, &RootOptions{Format: "json"}, "--db", dbPath, "--status", "ok", "--limit", "1")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, int64(3), resp.Data.Total)
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, "run-3", resp.Data.Runs[0].ID)
}

func TestHistoryHashFilter(t *testing.T) {
	dbPath := seedJournal(t)
	hashA := ir.ScriptHash("scriptA")

	for _, hash := range []string{hashA, ir.ShortHash(hashA)} {
		out, err := executeHistory(t, &RootOptions{Format: "json"}, "--db", dbPath, "--hash", hash)
		require.NoError(t, err)

		var resp struct {
			Data HistoryResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.Len(t, resp.Data.Runs, 2, hash)
		for _, run := range resp.Data.Runs {
			assert.Equal(t, hashA, run.ScriptHash)
		}
	}
}

func TestHistoryShowRun(t *testing.T) {
	dbPath := seedJournal(t)

	out, err := executeHistory(t, &RootOptions{Format: "text"}, "--db", dbPath, "run-2")
	require.NoError(t, err)

	assert.Contains(t, out, "Run: run-2")
	assert.Contains(t, out, "Status: error")
	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, "[0] {\"data\":1,\"type\":\"int\"}")
	assert.Contains(t, out, "Script:\nscriptB")
}

func TestHistoryShowRunJSON(t *testing.T) {
	dbPath := seedJournal(t)

	out, err := executeHistory(t, &RootOptions{Format: "json"}, "--db", dbPath, "run-1")
	require.NoError(t, err)

	var resp struct {
		Data journal.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "run-1", resp.Data.ID)
	assert.Equal(t, `[{"data":1,"type":"json"}]`, resp.Data.Outputs)
}

func TestHistoryShowMissingRun(t *testing.T) {
	dbPath := seedJournal(t)

	_, err := executeHistory(t, &RootOptions{Format: "text"}, "--db", dbPath, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found: nope")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistoryEmptyJournal(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := executeHistory(t, &RootOptions{Format: "text"}, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found.")
}

func TestHistoryDatabaseFromConfigDefault(t *testing.T) {
	dbPath := seedJournal(t)

	out, err := executeHistory(t, &RootOptions{Format: "text", Journal: dbPath})
	require.NoError(t, err)
	assert.Contains(t, out, "3 total")
}

func TestHistoryArgumentErrors(t *testing.T) {
	dbPath := seedJournal(t)

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"no database", nil, "no journal database"},
		{"bad status", []string{"--db", dbPath, "--status", "maybe"}, `invalid status "maybe"`},
		{"negative limit", []string{"--db", dbPath, "--limit", "-1"}, "limit must not be negative"},
		{"unopenable", []string{"--db", "/nonexistent/dir/runs.db"}, "failed to open database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeHistory(t, &RootOptions{Format: "text"}, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
