package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// WriteRun appends a run record and returns the sequence number it was
// given. Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same
// ID twice keeps the first record and returns its seq.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	// raw inputs are stored verbatim; MarshalCanonical would NFC-normalize them
	inputsJSON, err := json.Marshal(run.Inputs)
	if err != nil {
		return 0, fmt.Errorf("write run: marshal inputs: %w", err)
	}

	var outputs sql.NullString
	if run.Outputs != "" {
		outputs = sql.NullString{String: run.Outputs, Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, script_hash, run_hash, script, inputs, outputs, status, error, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		seq,
		run.ScriptHash,
		run.RunHash,
		run.Script,
		string(inputsJSON),
		outputs,
		run.Status,
		run.Error,
		run.EngineVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}
	if affected == 0 {
		if err := tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&seq); err != nil {
			return 0, fmt.Errorf("write run: existing seq: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}
