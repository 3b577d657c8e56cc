package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/nudb/nudbconfig/internal/cli/config"
	nudb "github.com/nudb/nudbconfig/pkg/config"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Out    io.Writer
}

// NewCommandContext collects the loaded CLI settings, the logger from the
// command context and the command's output writer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:    cfg,
		Logger: config.GetLogger(cmd.Context()),
		Out:    cmd.OutOrStdout(),
	}, nil
}

// Load reads the declaration directory and, when one is configured, applies
// the override directory on top.
func (c *CommandContext) Load(opts ...nudb.Option) (*nudb.Configuration, error) {
	if err := c.Cfg.ValidateDirectories(); err != nil {
		return nil, err
	}
	layout := c.Cfg.Layout
	c.Logger.Debug("loading configuration", "dir", layout.ConfigDir, "overrides", layout.OverridesDir)

	opts = append([]nudb.Option{
		nudb.WithLogger(c.Logger),
		nudb.WithDerivedSource(layout.DerivedSource),
	}, opts...)
	cfg, err := nudb.Load(layout.ConfigDir, opts...)
	if err != nil {
		return nil, err
	}
	if layout.OverridesDir != "" {
		if err := cfg.ApplyOverridesFromDir(layout.OverridesDir); err != nil {
			return nil, fmt.Errorf("apply overrides from %s: %w", layout.OverridesDir, err)
		}
	}
	return cfg, nil
}

// getConfig returns the current CLI settings, loading defaults when the
// command runs outside the root command.
func getConfig() (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}
