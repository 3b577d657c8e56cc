package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Print the value at a dotted path",
		Long: `Print the value at a dotted path of the loaded configuration,
after overrides have been applied.

Numeric path segments index lists.`,
		Example: `  # Print one variable
  nudbconfig show variables.fnr

  # Print a single field as TOML
  nudbconfig show variables.fnr.length -o toml

  # Print the whole configuration as YAML
  nudbconfig show . -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0])
		},
	}

	return cmd
}

func runShow(cmd *cobra.Command, dotted string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg, err := cmdCtx.Load()
	if err != nil {
		return err
	}

	if dotted == "." || dotted == "" {
		return renderValue(cmdCtx.Out, "config", cfg, cmdCtx.Cfg.Output)
	}
	v, err := cfg.Lookup(dotted)
	if err != nil {
		return err
	}
	key := dotted[strings.LastIndex(dotted, ".")+1:]
	return renderValue(cmdCtx.Out, key, v, cmdCtx.Cfg.Output)
}
