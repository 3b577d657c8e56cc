package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nudb/nudbconfig/internal/cli/config"
	nudb "github.com/nudb/nudbconfig/pkg/config"
	"github.com/spf13/cobra"
)

// Collections accepted by the list command.
var listKinds = []string{"variables", "datasets", "paths"}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <variables|datasets|paths>",
		Short: "List the entries of a collection",
		Long: `List every entry of the variables, datasets or paths collection
in declaration order.

The default text output is a table. Use --output toml, yaml or json to
print the full entries instead.`,
		Example: `  # List all variables
  nudbconfig list variables

  # List datasets as JSON
  nudbconfig list datasets -o json`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: listKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0])
		},
	}

	return cmd
}

func runList(cmd *cobra.Command, kind string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg, err := cmdCtx.Load()
	if err != nil {
		return err
	}

	if format := cmdCtx.Cfg.Output; format != config.OutputText {
		v, _ := cfg.Get(kind)
		return renderValue(cmdCtx.Out, kind, v, format)
	}

	t := newTable(cmdCtx.Out)
	switch kind {
	case "variables":
		listVariables(t, cfg)
	case "datasets":
		listDatasets(t, cfg)
	case "paths":
		listPaths(t, cfg)
	}
	t.Render()
	return nil
}

func listVariables(t table.Writer, cfg *nudb.Configuration) {
	t.AppendHeader(table.Row{"name", "unit", "dtype", "length", "codelist", "derived from"})
	for name, v := range cfg.Variables.All() {
		codelist := ""
		if v.HasCodelist() {
			codelist = fmt.Sprint(*v.KlassCodelist)
		}
		t.AppendRow(table.Row{name, v.Unit, v.DType, joinInts(v.Length), codelist, strings.Join(v.DerivedFrom, ", ")})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d variables", cfg.Variables.Len())})
}

func listDatasets(t table.Writer, cfg *nudb.Configuration) {
	t.AppendHeader(table.Row{"name", "team", "bucket", "variables"})
	for name, ds := range cfg.Datasets.All() {
		team := ds.Team
		if ds.Team != cfg.DaplaTeam {
			team += " (external)"
		}
		t.AppendRow(table.Row{name, team, ds.Bucket, len(ds.Variables)})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d datasets", cfg.Datasets.Len())})
}

func listPaths(t table.Writer, cfg *nudb.Configuration) {
	t.AppendHeader(table.Row{"name", "katalog", "delt_utdanning"})
	for name, p := range cfg.Paths.All() {
		t.AppendRow(table.Row{name, p.Katalog, p.DeltUtdanning})
	}
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}
