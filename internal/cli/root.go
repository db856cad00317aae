package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/maxwihlborg/fq/internal/kernel"
	"github.com/maxwihlborg/fq/internal/query"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// TraceIDs stamps JSON responses. Tests inject a fixed generator.
	TraceIDs TraceIDGenerator

	// Kernel overrides the standard operators when non-nil.
	Kernel *kernel.Kernel

	traceID string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the fq CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{TraceIDs: UUIDv7Generator{}})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	qopts := &QueryOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "fq <query> [file]",
		Short: "fq - query JSON with pipelines of operators",
		Long: `Run a query against a JSON, YAML or CUE document.

The document is read from file, or from stdin when no file is given.

Examples:
  fq '.items | filter(.price > 10) | map(.name)' data.json
  cat data.json | fq 'groupBy(.type) | mapValues(count())'
  fq --show-ir '2 * 2 + .a'
  fq -c 'omit(secret)' config.yaml`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(qopts, args, cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	qopts.bindFlags(cmd)

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// Execute runs the CLI with default options and returns the process exit
// code.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return ExecuteWith(&RootOptions{TraceIDs: UUIDv7Generator{}}, args, stdin, stdout, stderr)
}

// ExecuteWith runs the CLI with opts. Errors are reported on stdout as a JSON
// envelope with --format json, otherwise on stderr.
func ExecuteWith(opts *RootOptions, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// Flag and argument errors from cobra itself
		exitErr = WrapExitError(ExitCommandError, "invalid usage", err)
	}
	if !exitErr.Silent {
		f := opts.formatterFor(stdout, stderr)
		_ = f.Error(errorCode(exitErr), exitErr.Error(), nil)
	}
	return exitErr.Code
}

// errorCode picks the machine-readable code for a failed command.
func errorCode(err *ExitError) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	if code := query.ErrorCode(err.Err); code != "" && code != query.CodeUnknown {
		return code
	}
	if err.Code == ExitCommandError {
		return "COMMAND_ERROR"
	}
	return "FAILED"
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return o.formatterFor(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func (o *RootOptions) formatterFor(stdout, stderr io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    stdout,
		ErrWriter: stderr,
		Verbose:   o.Verbose,
		TraceID:   o.currentTraceID(),
	}
}

// currentTraceID returns one ID per invocation, generated on first use.
func (o *RootOptions) currentTraceID() string {
	if o.traceID == "" && o.TraceIDs != nil {
		o.traceID = o.TraceIDs.Generate()
	}
	return o.traceID
}

// newLogger configures logging based on the verbose flag. Logs always go to
// stderr so they never mix with query output.
func (o *RootOptions) newLogger(cmd *cobra.Command) *slog.Logger {
	logLevel := slog.LevelInfo
	if o.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}

func (o *RootOptions) queryOptions(logger *slog.Logger) []query.Option {
	qo := []query.Option{query.WithLogger(logger)}
	if o.Kernel != nil {
		qo = append(qo, query.WithKernel(o.Kernel))
	}
	return qo
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
