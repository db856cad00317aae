package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxwihlborg/fq/internal/query"
	"github.com/maxwihlborg/fq/internal/typecheck"
)

// CheckResult is the JSON payload of the check command.
type CheckResult struct {
	Query    string                `json:"query"`
	Warnings []typecheck.TypeError `json:"warnings"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <query>",
		Short: "Type check a query without running it",
		Long: `Report shape mismatches between the stages of a query.

Warnings are advisory: the query may still run. Unknown operators are
reported as warnings here but fail when the query is run.

Exit codes:
  0 - No warnings
  1 - Warnings found, or the query does not parse
  2 - Command error

Examples:
  fq check '(.a + .b) | count()'
  fq check 'map(.x) | filter(.y > 0) | count()' --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, src string, cmd *cobra.Command) error {
	logger := opts.newLogger(cmd)

	warnings, err := query.Check(src, opts.queryOptions(logger)...)
	if err != nil {
		return WrapExitError(ExitFailure, "check failed", err)
	}
	logger.Debug("query checked", "query", src, "warnings", len(warnings))

	f := opts.formatter(cmd)
	if opts.Format == "json" {
		resp := CLIResponse{
			Status:  "ok",
			Data:    CheckResult{Query: src, Warnings: warnings},
			TraceID: f.TraceID,
		}
		if len(warnings) > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    "TYPE_WARNINGS",
				Message: fmt.Sprintf("%d type warning(s)", len(warnings)),
			}
		}
		if err := f.encode(resp); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, warning := range warnings {
			fmt.Fprintf(w, "warning: %s\n", warning.Message)
		}
		if len(warnings) == 0 {
			fmt.Fprintln(w, "✓ No type warnings")
		}
	}

	if len(warnings) > 0 {
		return silentExit(ExitFailure, fmt.Sprintf("%d type warning(s)", len(warnings)))
	}
	return nil
}
