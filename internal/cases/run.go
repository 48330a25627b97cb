package cases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/runscript/internal/ir"
)

// Executor runs one script against raw inputs. *runner.Runner satisfies it.
type Executor interface {
	Run(ctx context.Context, inputs []string, body string) (string, error)
}

// Result is the outcome of checking one case.
type Result struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Output string   `json:"output,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// Summary aggregates the results of a set of cases.
type Summary struct {
	Cases  []Result `json:"cases"`
	Passed int      `json:"passed"`
	Failed int      `json:"failed"`
	Total  int      `json:"total"`
}

// Check runs c through exec and compares the outcome with its expectations.
// A failing case is reported in the Result, not as an error.
func Check(ctx context.Context, exec Executor, c *Case) Result {
	res := Result{Name: c.Name}

	inputs, err := c.RawInputs()
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	out, runErr := exec.Run(ctx, inputs, c.Script)
	res.Output = out

	switch {
	case c.ExpectError != "":
		if runErr == nil {
			res.Errors = append(res.Errors, fmt.Sprintf("expected error containing %q, run succeeded", c.ExpectError))
		} else if !strings.Contains(runErr.Error(), c.ExpectError) {
			res.Errors = append(res.Errors, fmt.Sprintf("expected error containing %q, got %q", c.ExpectError, runErr.Error()))
		}
	case runErr != nil:
		res.Errors = append(res.Errors, fmt.Sprintf("run failed: %v", runErr))
	case c.Expect != nil:
		if err := compareOutputs(c.Expect, out); err != nil {
			res.Errors = append(res.Errors, err.Error())
		}
	}

	res.Pass = len(res.Errors) == 0
	return res
}

// CheckAll checks every case in order.
func CheckAll(ctx context.Context, exec Executor, all []*Case) Summary {
	sum := Summary{Cases: make([]Result, 0, len(all))}
	for _, c := range all {
		res := Check(ctx, exec, c)
		if res.Pass {
			sum.Passed++
		} else {
			sum.Failed++
		}
		sum.Cases = append(sum.Cases, res)
	}
	sum.Total = len(all)
	return sum
}

// compareOutputs compares expected records with the runner's JSON output
// by canonical form.
func compareOutputs(expect []map[string]any, out string) error {
	want, err := canonicalJSON(expect)
	if err != nil {
		return fmt.Errorf("expect: %w", err)
	}

	var actual any
	if err := json.Unmarshal([]byte(out), &actual); err != nil {
		return fmt.Errorf("output is not JSON: %w", err)
	}
	got, err := ir.MarshalCanonical(actual)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}

	if want != string(got) {
		return fmt.Errorf("output mismatch:\n  want: %s\n  got:  %s", want, got)
	}
	return nil
}

// canonicalJSON passes YAML-decoded values through JSON first so that
// numbers and nested maps take the same Go types as the runner's output.
func canonicalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return "", err
	}
	canonical, err := ir.MarshalCanonical(generic)
	if err != nil {
		return "", err
	}
	return string(canonical), nil
}
