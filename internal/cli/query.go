package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/maxwihlborg/fq/internal/ast"
	"github.com/maxwihlborg/fq/internal/ir"
	"github.com/maxwihlborg/fq/internal/printer"
	"github.com/maxwihlborg/fq/internal/query"
	"github.com/maxwihlborg/fq/internal/value"
)

// QueryOptions holds flags for running a query.
type QueryOptions struct {
	*RootOptions
	Out         string // write output to this file
	Commit      bool   // write output back to the input file
	ShowAST     bool
	ShowIR      bool
	Color       bool   // force colors
	Compact     bool   // single-line output
	InputFormat string // json|yaml|cue, inferred when empty
}

func (o *QueryOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Out, "out", "o", "", "write output to file")
	cmd.Flags().BoolVarP(&o.Commit, "commit", "c", false, "write output back to the input file")
	cmd.Flags().BoolVar(&o.ShowAST, "show-ast", false, "print the syntax tree instead of running")
	cmd.Flags().BoolVar(&o.ShowIR, "show-ir", false, "print the reduced tree instead of running")
	cmd.Flags().BoolVar(&o.Color, "color", false, "force colored output")
	cmd.Flags().BoolVar(&o.Compact, "compact", false, "print output on a single line")
	cmd.Flags().StringVar(&o.InputFormat, "input-format", "", "input format (json|yaml|cue), inferred from the file extension by default")
	cmd.MarkFlagsMutuallyExclusive("out", "commit")
}

func runQuery(opts *QueryOptions, args []string, cmd *cobra.Command) error {
	src := args[0]
	var path string
	if len(args) > 1 {
		path = args[1]
	}

	if opts.Commit && path == "" {
		return NewExitError(ExitCommandError, "--commit requires an input file")
	}
	format, err := ParseInputFormat(opts.InputFormat)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}

	logger := opts.newLogger(cmd)
	f := opts.formatter(cmd)

	if opts.ShowAST || opts.ShowIR {
		return showTrees(opts, src, cmd, f)
	}

	prog, err := query.Compile(src, opts.queryOptions(logger)...)
	if err != nil {
		return WrapExitError(ExitFailure, "compile failed", err)
	}

	data, name, err := ReadInput(path, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}
	if format == "" {
		format = DetectFormat(path)
	}
	input, err := DecodeInput(data, name, format)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to decode input", err)
	}

	logger.Debug("running query", "query", src, "input", name, "format", format)

	out, err := prog.Run(input)
	if err != nil {
		return WrapExitError(ExitFailure, "query failed", err)
	}

	target := opts.Out
	if opts.Commit {
		target = path
	}
	if target == "" {
		return writeResult(opts, f, cmd.OutOrStdout(), out)
	}

	var buf bytes.Buffer
	if err := writeResult(opts, f, &buf, out); err != nil {
		return err
	}
	if err := os.WriteFile(target, buf.Bytes(), 0644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output",
			&LoadError{Code: ErrCodeWriteFailed, Message: err.Error()})
	}
	logger.Info("wrote output", "path", target)
	return nil
}

// writeResult prints out to w. Iterables are drained while printing, so a
// runtime error may surface after part of the output was written.
func writeResult(opts *QueryOptions, f *OutputFormatter, w io.Writer, out any) error {
	if opts.Format == "json" {
		raw, err := value.MarshalCanonical(out)
		if err != nil {
			return WrapExitError(ExitFailure, "query failed", err)
		}
		resp := *f
		resp.Writer = w
		return resp.Success(json.RawMessage(raw))
	}

	popts := []printer.Option{printer.WithTheme(themeFor(opts, w))}
	if opts.Compact {
		popts = append(popts, printer.WithIndent(0))
	}
	if err := printer.New(w, popts...).Print(out); err != nil {
		return WrapExitError(ExitFailure, "query failed", err)
	}
	return nil
}

func themeFor(opts *QueryOptions, w io.Writer) printer.Theme {
	if opts.Color {
		return printer.ColorTheme(w)
	}
	if f, ok := w.(*os.File); ok && printer.DetectColor(f) {
		return printer.ColorTheme(w)
	}
	return printer.PlainTheme()
}

// TreeDump is the JSON payload of --show-ast and --show-ir.
type TreeDump struct {
	Query string `json:"query"`
	AST   string `json:"ast,omitempty"`
	IR    string `json:"ir,omitempty"`
}

func showTrees(opts *QueryOptions, src string, cmd *cobra.Command, f *OutputFormatter) error {
	tree, err := query.Parse(src)
	if err != nil {
		return WrapExitError(ExitFailure, "parse failed", err)
	}

	dump := TreeDump{Query: src}
	if opts.ShowAST {
		dump.AST = ast.Show(tree)
	}
	if opts.ShowIR {
		dump.IR = ir.Show(query.Reduce(tree))
	}

	if opts.Format == "json" {
		return f.Success(dump)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "ex: %s\n", src)
	for _, t := range []string{dump.AST, dump.IR} {
		if t != "" {
			fmt.Fprintf(w, "\n%s\n", t)
		}
	}
	return nil
}
