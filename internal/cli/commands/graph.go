package commands

import (
	"fmt"
	"strings"

	"github.com/nudb/nudbconfig/internal/cli/config"
	nudb "github.com/nudb/nudbconfig/pkg/config"
	"github.com/spf13/cobra"
)

// GraphNode is one variable in the derivation graph output.
type GraphNode struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	DerivedFrom []string `json:"derived_from,omitempty" yaml:"derived_from,omitempty" toml:"derived_from,omitempty"`
	UsedBy      []string `json:"used_by,omitempty" yaml:"used_by,omitempty" toml:"used_by,omitempty"`
}

// GraphLevel groups variables that only depend on earlier levels.
type GraphLevel struct {
	Level     int         `json:"level" yaml:"level" toml:"level"`
	Variables []GraphNode `json:"variables" yaml:"variables" toml:"variables"`
}

// GraphLineage is the upstream and downstream closure of one variable.
type GraphLineage struct {
	Variable   string   `json:"variable" yaml:"variable" toml:"variable"`
	Upstream   []string `json:"upstream" yaml:"upstream" toml:"upstream"`
	Downstream []string `json:"downstream" yaml:"downstream" toml:"downstream"`
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [variable]",
		Short: "Show the derivation graph",
		Long: `Display the derivation graph of all variables.

Without an argument, variables are grouped by level: every variable only
derives from variables on earlier levels. With a variable name, list every
variable it derives from and every variable derived from it.`,
		Example: `  # Show derivation levels
  nudbconfig graph

  # Show what utd_hoeyeste_nus2000 depends on and feeds
  nudbconfig graph utd_hoeyeste_nus2000

  # Output as JSON
  nudbconfig graph -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args)
		},
	}

	return cmd
}

func runGraph(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg, err := cmdCtx.Load()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return graphLineage(cmdCtx, cfg, args[0])
	}

	levels, err := cfg.DerivationLevels()
	if err != nil {
		return fmt.Errorf("failed to get derivation levels: %w", err)
	}
	out := make([]GraphLevel, 0, len(levels))
	for i, level := range levels {
		gl := GraphLevel{Level: i, Variables: make([]GraphNode, 0, len(level))}
		for _, name := range level {
			gl.Variables = append(gl.Variables, graphNode(cfg, name))
		}
		out = append(out, gl)
	}

	if format := cmdCtx.Cfg.Output; format != config.OutputText {
		return renderValue(cmdCtx.Out, "levels", map[string]any{"levels": out}, format)
	}
	return graphText(cmdCtx, out)
}

func graphNode(cfg *nudb.Configuration, name string) GraphNode {
	n := GraphNode{Name: name}
	if v, ok := cfg.Variable(name); ok {
		n.DerivedFrom = v.DerivedFrom
	}
	for other, v := range cfg.Variables.All() {
		for _, dep := range v.DerivedFrom {
			if dep == name {
				n.UsedBy = append(n.UsedBy, other)
				break
			}
		}
	}
	return n
}

func graphText(cmdCtx *CommandContext, levels []GraphLevel) error {
	w := cmdCtx.Out
	total := 0
	for _, level := range levels {
		_, _ = fmt.Fprintf(w, "Level %d:\n", level.Level)
		for _, n := range level.Variables {
			total++
			_, _ = fmt.Fprintf(w, "  %s\n", n.Name)
			if len(n.DerivedFrom) > 0 {
				_, _ = fmt.Fprintf(w, "    derived from: %s\n", strings.Join(n.DerivedFrom, ", "))
			}
			if len(n.UsedBy) > 0 {
				_, _ = fmt.Fprintf(w, "    used by: %s\n", strings.Join(n.UsedBy, ", "))
			}
		}
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintf(w, "Total: %d variables\n", total)
	return nil
}

func graphLineage(cmdCtx *CommandContext, cfg *nudb.Configuration, name string) error {
	if !cfg.Variables.Contains(name) {
		return fmt.Errorf("variable not found: %s", name)
	}
	lin := GraphLineage{
		Variable:   name,
		Upstream:   cfg.Upstream(name),
		Downstream: cfg.Downstream(name),
	}

	if format := cmdCtx.Cfg.Output; format != config.OutputText {
		return renderValue(cmdCtx.Out, "lineage", lin, format)
	}
	w := cmdCtx.Out
	_, _ = fmt.Fprintf(w, "%s\n", name)
	_, _ = fmt.Fprintf(w, "  upstream: %s\n", orNone(lin.Upstream))
	_, _ = fmt.Fprintf(w, "  downstream: %s\n", orNone(lin.Downstream))
	return nil
}

func orNone(xs []string) string {
	if len(xs) == 0 {
		return "(none)"
	}
	return strings.Join(xs, ", ")
}
