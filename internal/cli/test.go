package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/runscript/internal/cases"
	"github.com/roach88/runscript/internal/runner"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <cases-dir>",
		Short: "Run YAML script cases",
		Long: `Run every YAML case file in a directory.

A case names a script, its inputs and either the expected outputs or a
substring of the expected error. Outputs are compared as canonical JSON.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (missing directory, unparseable case file)

Examples:
  runscript test ./cases
  runscript test ./cases --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	return cmd
}

func runTests(opts *TestOptions, casesDir string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if info, err := os.Stat(casesDir); err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("cases directory not found: %s", casesDir))
	}

	all, err := cases.LoadDir(casesDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load cases", err)
	}

	if len(all) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(cmd, cases.Summary{Cases: []cases.Result{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No cases found.")
		return nil
	}

	r := runner.New(opts.engine(), runner.WithLogger(slog.Default()))
	summary := cases.CheckAll(ctx, r, all)

	if opts.Format == "json" {
		return outputTestJSON(cmd, summary)
	}
	return outputTestText(cmd, summary)
}

// outputTestJSON outputs the test summary as JSON.
func outputTestJSON(cmd *cobra.Command, summary cases.Summary) error {
	status := "ok"
	if summary.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   summary,
	}

	if summary.Failed > 0 {
		response.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d case(s) failed", summary.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", summary.Failed))
	}
	return nil
}

// outputTestText outputs one line per case followed by the summary.
func outputTestText(cmd *cobra.Command, summary cases.Summary) error {
	w := cmd.OutOrStdout()

	for _, res := range summary.Cases {
		if res.Pass {
			fmt.Fprintf(w, "✓ %s\n", res.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", res.Name)
		for _, msg := range res.Errors {
			fmt.Fprintf(w, "  %s\n", msg)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", summary.Passed, summary.Failed, summary.Total)

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", summary.Failed))
	}

	fmt.Fprintln(w, "✓ All cases passed")
	return nil
}
