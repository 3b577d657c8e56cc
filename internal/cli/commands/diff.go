package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nudb/nudbconfig/internal/cli/config"
	nudb "github.com/nudb/nudbconfig/pkg/config"
	"github.com/spf13/cobra"
)

// DiffEntry is one change in the diff command output.
type DiffEntry struct {
	Path   string `json:"path" yaml:"path" toml:"path"`
	Kind   string `json:"kind" yaml:"kind" toml:"kind"`
	Before any    `json:"before,omitempty" yaml:"before,omitempty" toml:"before,omitempty"`
	After  any    `json:"after,omitempty" yaml:"after,omitempty" toml:"after,omitempty"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <dir>",
		Short: "Show what merging an override directory would change",
		Long: `Merge the declaration files in <dir> into a copy of the loaded
configuration and list every entry or field that would be added, removed or
modified. The loaded configuration itself is left untouched.`,
		Example: `  # Preview an external override directory
  nudbconfig diff ./external_tomls

  # As YAML
  nudbconfig diff ./external_tomls -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0])
		},
	}

	return cmd
}

func runDiff(cmd *cobra.Command, dir string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg, err := cmdCtx.Load()
	if err != nil {
		return err
	}
	merged, err := cfg.MergeTOMLs(dir)
	if err != nil {
		return err
	}

	changes := nudb.Diff(cfg, merged)
	entries := make([]DiffEntry, len(changes))
	for i, c := range changes {
		entries[i] = DiffEntry{Path: c.Path, Kind: string(c.Kind), Before: c.Before, After: c.After}
	}

	if format := cmdCtx.Cfg.Output; format != config.OutputText {
		return renderValue(cmdCtx.Out, "changes", map[string]any{"changes": entries}, format)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(cmdCtx.Out, "No changes.")
		return nil
	}
	t := newTable(cmdCtx.Out)
	t.AppendHeader(table.Row{"path", "change", "before", "after"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Path, e.Kind, formatValue(e.Before), formatValue(e.After)})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d changes", len(entries))})
	t.Render()
	return nil
}
