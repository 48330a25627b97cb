package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/roach88/runscript/internal/codec"
	"github.com/roach88/runscript/internal/ir"
	"github.com/roach88/runscript/internal/journal"
	"github.com/roach88/runscript/internal/runner"
)

// ExecOptions holds flags for running a script from the root command.
type ExecOptions struct {
	*RootOptions
	Script     string
	ScriptFile string
}

func runExec(opts *ExecOptions, inputs []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	body, err := opts.loadScript(cmd.Flags())
	if err != nil {
		return err
	}

	r := runner.New(opts.engine(), runner.WithLogger(slog.Default()))
	res, runErr := r.Execute(ctx, inputs, body)

	if opts.Journal != "" {
		var outputs string
		if res != nil {
			outputs = res.JSON
		}
		if err := recordRun(ctx, opts.RootOptions, body, inputs, outputs, runErr); err != nil {
			return err
		}
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if runErr != nil {
		exitErr := runExitError(runErr)
		if opts.Format == "json" {
			report := &OutputFormatter{Format: "json", Writer: cmd.ErrOrStderr()}
			if err := report.Error(ErrorCode(runErr), runErr.Error(), map[string]string{
				"script_hash": ir.ScriptHash(body),
			}); err != nil {
				slog.Error("error writing error report", "error", err)
			}
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, res.JSON)
	formatter.VerboseLog("%d output(s) from script %s", len(res.Outputs), ir.ShortHash(res.ScriptHash))
	return nil
}

// loadScript returns the body from exactly one of --script and --script-file.
func (o *ExecOptions) loadScript(flags *pflag.FlagSet) (string, error) {
	inline, fromFile := flags.Changed("script"), flags.Changed("script-file")
	switch {
	case inline && fromFile:
		return "", NewExitError(ExitCommandError, "--script and --script-file are mutually exclusive")
	case !inline && !fromFile:
		return "", NewExitError(ExitCommandError, "one of --script or --script-file is required")
	case inline:
		return o.Script, nil
	}

	data, err := os.ReadFile(o.ScriptFile)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to read script file", err)
	}
	return string(data), nil
}

// recordRun appends the finished run to the journal.
func recordRun(ctx context.Context, opts *RootOptions, body string, inputs []string, outputs string, runErr error) error {
	st, err := journal.Open(opts.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing journal", "error", closeErr)
		}
	}()

	run, err := journal.NewRun(opts.idGenerator().Generate(), body, inputs, outputs, runErr)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build journal record", err)
	}

	seq, err := st.WriteRun(ctx, run)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to write journal", err)
	}
	slog.Debug("run journaled", "id", run.ID, "seq", seq, "status", run.Status)
	return nil
}

// runExitError maps a runner failure to an exit code. Malformed inputs are
// caller mistakes; everything else happened while running the script.
func runExitError(err error) *ExitError {
	var inputErr *codec.InputError
	if errors.As(err, &inputErr) {
		return WrapExitError(ExitCommandError, "invalid input", err)
	}
	return WrapExitError(ExitFailure, "run failed", err)
}
