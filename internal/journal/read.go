package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const selectRunColumns = `
	SELECT id, seq, script_hash, run_hash, script, inputs, outputs, status, error, engine_version
	FROM runs`

// ListFilter narrows ListRuns.
type ListFilter struct {
	// ScriptHash, when set, keeps only runs of that script.
	ScriptHash string

	// Status, when set, keeps only runs with that status.
	Status string

	// Limit caps the number of runs returned; zero means no limit.
	Limit int
}

// ListRuns returns runs newest first: ORDER BY seq DESC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, filter ListFilter) ([]Run, error) {
	var (
		query strings.Builder
		where []string
		args  []any
	)
	query.WriteString(selectRunColumns)

	if filter.ScriptHash != "" {
		where = append(where, "script_hash = ?")
		args = append(args, filter.ScriptHash)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if len(where) > 0 {
		query.WriteString("\n\tWHERE " + strings.Join(where, " AND "))
	}
	query.WriteString("\n\tORDER BY seq DESC, id COLLATE BINARY ASC")
	if filter.Limit > 0 {
		query.WriteString("\n\tLIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRunColumns+"\n\tWHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// CountRuns returns the number of journaled runs.
func (s *Store) CountRuns(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run        Run
		inputsJSON string
		outputs    sql.NullString
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.ScriptHash,
		&run.RunHash,
		&run.Script,
		&inputsJSON,
		&outputs,
		&run.Status,
		&run.Error,
		&run.EngineVersion,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	if err := json.Unmarshal([]byte(inputsJSON), &run.Inputs); err != nil {
		return Run{}, fmt.Errorf("unmarshal inputs for run %s: %w", run.ID, err)
	}
	run.Outputs = outputs.String
	return run, nil
}
