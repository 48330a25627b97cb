package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/runscript/internal/config"
	"github.com/roach88/runscript/internal/journal"
	"github.com/roach88/runscript/internal/script"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Journal    string // journal database; flag on the root command, default for history

	// Engine evaluates scripts. Nil selects the Risor engine.
	Engine script.Engine

	// IDs generates journal run IDs. Nil selects UUIDv7.
	IDs journal.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = config.ValidFormats

// NewRootCommand creates the root command for the runscript CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	execOpts := &ExecOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "runscript <input>... (--script <body> | --script-file <path>)",
		Short: "Run a script against typed JSON inputs",
		Long: `Run a script body against typed inputs and print its outputs.

Each input is a JSON object {"data": ..., "type": "string|int|float|json|bool"}.
The body must define run(...), called with the decoded inputs in order.
run must return an object whose getAll() yields the outputs, which are
printed as a JSON array of {"data": ..., "type": "json"} records.

Exit codes:
  0 - Outputs printed
  1 - Script failed or produced an unsupported output
  2 - Command error (bad input, unreadable script, journal failure)

Examples:
  runscript '{"data":"2","type":"int"}' --script 'function run(n) { return {getAll: () => [n * 2]} }'
  runscript '{"data":[1,2],"type":"json"}' --script-file ./double.risor
  runscript '{"data":"x","type":"string"}' --script-file ./echo.risor --journal ./runs.db`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return NewExitError(ExitCommandError, "at least one input is required")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(execOpts, args, cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")

	cmd.Flags().StringVar(&execOpts.Script, "script", "", "script body")
	cmd.Flags().StringVar(&execOpts.ScriptFile, "script-file", "", "path to a file holding the script body")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "record the run in this SQLite journal")
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Add subcommands
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// prepare merges the config file under the command line flags, validates
// the result and installs the logger.
func (o *RootOptions) prepare(cmd *cobra.Command) error {
	if o.ConfigPath != "" {
		cfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		o.applyConfig(cmd, cfg)
	}

	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	slog.SetDefault(newLogger(cmd.ErrOrStderr(), o.Verbose))
	return nil
}

// applyConfig copies config values into options whose flags were not set.
func (o *RootOptions) applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if cfg.Journal != "" && !flags.Changed("journal") {
		o.Journal = cfg.Journal
	}
	if cfg.Verbose && !flags.Changed("verbose") {
		o.Verbose = true
	}
	if cfg.Format != "" && !flags.Changed("format") {
		o.Format = cfg.Format
	}
}

func (o *RootOptions) engine() script.Engine {
	if o.Engine != nil {
		return o.Engine
	}
	return script.NewRisorEngine()
}

func (o *RootOptions) idGenerator() journal.IDGenerator {
	if o.IDs != nil {
		return o.IDs
	}
	return journal.UUIDv7Generator{}
}

// newLogger writes text logs to w. Diagnostics stay off stdout so the
// output array is never interleaved with log lines.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
