package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxwihlborg/fq/internal/kernel"
	"github.com/maxwihlborg/fq/internal/ops"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	JSON bool
}

// OperatorInfo describes one operator in list output.
type OperatorInfo struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
	Kind    string   `json:"kind"`
	In      string   `json:"in"`
	Out     string   `json:"out"`
	Doc     string   `json:"doc,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available operators",
		Long: `List every operator with its aliases and shape contract.

Examples:
  fq list
  fq list --json
  fq list --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print operators as JSON (same as --format json)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	k := opts.Kernel
	if k == nil {
		k = ops.Kernel()
	}
	infos := operatorInfos(k)

	if opts.JSON {
		opts.Format = "json"
	}
	f := opts.formatter(cmd)
	if opts.Format == "json" {
		return f.Success(infos)
	}

	w := cmd.OutOrStdout()
	nameWidth, kindWidth := len("Name"), len("Kind")
	for _, info := range infos {
		nameWidth = max(nameWidth, len(info.Name))
		kindWidth = max(kindWidth, len(info.Kind))
	}

	fmt.Fprintf(w, "  %-*s  %-*s  %s\n\n", nameWidth, "Name", kindWidth, "Kind", "Alias")
	for _, info := range infos {
		line := fmt.Sprintf("  %-*s  %-*s  %s", nameWidth, info.Name, kindWidth, info.Kind, strings.Join(info.Aliases, ", "))
		fmt.Fprintln(w, strings.TrimRight(line, " "))
		if opts.Verbose && info.Doc != "" {
			fmt.Fprintf(w, "  %*s  %s\n", nameWidth, "", info.Doc)
		}
	}
	return nil
}

func operatorInfos(k *kernel.Kernel) []OperatorInfo {
	descs := k.Descriptors()
	infos := make([]OperatorInfo, 0, len(descs))
	for _, d := range descs {
		aliases := d.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		infos = append(infos, OperatorInfo{
			Name:    d.Name,
			Aliases: aliases,
			Kind:    d.Kind.String(),
			In:      d.In().String(),
			Out:     d.Out().String(),
			Doc:     d.Doc,
		})
	}
	return infos
}
