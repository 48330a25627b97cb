package journal

import (
	"errors"

	"github.com/roach88/runscript/internal/ir"
)

// Run status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrRunNotFound is returned by GetRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one journaled invocation of the harness.
type Run struct {
	ID            string   `json:"id"`
	Seq           int64    `json:"seq"`
	ScriptHash    string   `json:"script_hash"`
	RunHash       string   `json:"run_hash"`
	Script        string   `json:"script"`
	Inputs        []string `json:"inputs"`
	Outputs       string   `json:"outputs,omitempty"`
	Status        string   `json:"status"`
	Error         string   `json:"error,omitempty"`
	EngineVersion string   `json:"engine_version"`
}

// NewRun builds the record for a finished run. runErr decides the status;
// outputs is ignored when runErr is set. Seq is assigned by WriteRun.
func NewRun(id, script string, inputs []string, outputs string, runErr error) (Run, error) {
	scriptHash := ir.ScriptHash(script)
	runHash, err := ir.RunHash(scriptHash, inputs)
	if err != nil {
		return Run{}, err
	}

	if inputs == nil {
		inputs = []string{}
	}

	run := Run{
		ID:            id,
		ScriptHash:    scriptHash,
		RunHash:       runHash,
		Script:        script,
		Inputs:        inputs,
		Status:        StatusOK,
		Outputs:       outputs,
		EngineVersion: ir.EngineVersion,
	}
	if runErr != nil {
		run.Status = StatusError
		run.Error = runErr.Error()
		run.Outputs = ""
	}
	return run, nil
}
