package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/runscript/internal/ir"
	"github.com/roach88/runscript/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Hash     string
	Status   string
}

// HistoryResult is the JSON payload of a history listing.
type HistoryResult struct {
	Runs  []journal.Run `json:"runs"`
	Total int64         `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List journaled runs",
		Long: `List runs recorded with --journal, newest first.

With a run ID, show that run in full: script, inputs and outputs or error.
The database defaults to the journal named in the config file.

Examples:
  runscript history --db ./runs.db
  runscript history --db ./runs.db --status error --limit 5
  runscript history --db ./runs.db --hash 3f2a9c
  runscript history --db ./runs.db 0192f0c4-7a51-7c2e-9d3b-5b8e2f6a1c00 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showRun(opts, args[0], cmd)
			}
			return listRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the journal database")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.Hash, "hash", "", "only runs whose script hash starts with this prefix")
	cmd.Flags().StringVar(&opts.Status, "status", "", "only runs with this status (ok|error)")

	return cmd
}

func (o *HistoryOptions) openJournal() (*journal.Store, error) {
	path := o.Database
	if path == "" {
		path = o.Journal
	}
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no journal database: pass --db or set journal in the config file")
	}
	st, err := journal.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func listRuns(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	if opts.Status != "" && opts.Status != journal.StatusOK && opts.Status != journal.StatusError {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid status %q: must be ok or error", opts.Status))
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "limit must not be negative")
	}

	st, err := opts.openJournal()
	if err != nil {
		return err
	}
	defer st.Close()

	filter := journal.ListFilter{Status: opts.Status}
	if len(opts.Hash) == 64 {
		filter.ScriptHash = opts.Hash
	} else if opts.Hash == "" {
		filter.Limit = opts.Limit
	}

	runs, err := st.ListRuns(ctx, filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	if opts.Hash != "" && filter.ScriptHash == "" {
		runs = filterByHashPrefix(runs, opts.Hash, opts.Limit)
	}

	total, err := st.CountRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count runs", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	if opts.Format == "json" {
		return formatter.Success(HistoryResult{Runs: runs, Total: total})
	}
	return formatter.Success(formatRunList(runs, total))
}

// filterByHashPrefix keeps runs whose script hash starts with prefix, up to
// limit entries (zero means all).
func filterByHashPrefix(runs []journal.Run, prefix string, limit int) []journal.Run {
	kept := make([]journal.Run, 0, len(runs))
	for _, run := range runs {
		if !strings.HasPrefix(run.ScriptHash, prefix) {
			continue
		}
		kept = append(kept, run)
		if limit > 0 && len(kept) == limit {
			break
		}
	}
	return kept
}

func showRun(opts *HistoryOptions, id string, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := opts.openJournal()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.GetRun(ctx, id)
	if errors.Is(err, journal.ErrRunNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", id))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load run", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	if opts.Format == "json" {
		return formatter.Success(run)
	}
	return formatter.Success(formatRunDetail(run))
}

func formatRunList(runs []journal.Run, total int64) string {
	if len(runs) == 0 {
		return "No runs found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Runs: %d shown, %d total\n", len(runs), total)
	for _, run := range runs {
		fmt.Fprintf(&b, "  [%d] %s %-5s script=%s", run.Seq, run.ID, run.Status, ir.ShortHash(run.ScriptHash))
		if run.Status == journal.StatusError {
			fmt.Fprintf(&b, " error=%s", truncate(run.Error, 60))
		} else {
			fmt.Fprintf(&b, " outputs=%s", truncate(run.Outputs, 60))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func formatRunDetail(run journal.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run: %s\n", run.ID)
	fmt.Fprintf(&b, "Seq: %d\n", run.Seq)
	fmt.Fprintf(&b, "Status: %s\n", run.Status)
	fmt.Fprintf(&b, "Script Hash: %s\n", run.ScriptHash)
	fmt.Fprintf(&b, "Run Hash: %s\n", run.RunHash)
	fmt.Fprintf(&b, "Engine: %s\n", run.EngineVersion)
	b.WriteString("\nInputs:\n")
	for i, in := range run.Inputs {
		fmt.Fprintf(&b, "  [%d] %s\n", i, in)
	}
	if run.Status == journal.StatusError {
		fmt.Fprintf(&b, "\nError: %s\n", run.Error)
	} else {
		fmt.Fprintf(&b, "\nOutputs: %s\n", run.Outputs)
	}
	b.WriteString("\nScript:\n")
	b.WriteString(run.Script)
	return strings.TrimSuffix(b.String(), "\n")
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
