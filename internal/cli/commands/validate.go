package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nudb/nudbconfig/internal/cli/config"
	"github.com/nudb/nudbconfig/internal/loader"
	nudb "github.com/nudb/nudbconfig/pkg/config"
	"github.com/spf13/cobra"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Watch    bool
	Debounce time.Duration
}

// CheckOutput is one check in the validate command output.
type CheckOutput struct {
	ID        string   `json:"id" yaml:"id" toml:"id"`
	Name      string   `json:"name" yaml:"name" toml:"name"`
	Passed    bool     `json:"passed" yaml:"passed" toml:"passed"`
	Offenders []string `json:"offenders,omitempty" yaml:"offenders,omitempty" toml:"offenders,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and run every check",
		Long: `Load the declaration directory, apply the override directory when one
is configured, and run every named cross-reference check.

Each check lists all of its offenders at once. The command exits non-zero
when any check fails. With --watch it keeps running and re-validates when a
declaration file changes.`,
		Example: `  # Validate the configuration found from the working directory
  nudbconfig validate

  # Validate with an override directory and keep watching
  nudbconfig validate --overrides ./external_tomls --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-validate when declaration files change")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 200*time.Millisecond, "Quiet period before re-validating in watch mode")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if !opts.Watch {
		return validateOnce(cmdCtx)
	}
	return watchAndValidate(cmd.Context(), cmdCtx, opts.Debounce)
}

// validateOnce loads the configuration and reports every check. Fatal load
// errors, including derivation cycles, are returned as is.
func validateOnce(cmdCtx *CommandContext) error {
	cfg, err := cmdCtx.Load(nudb.WithoutCrossChecks())
	if err != nil {
		return err
	}

	results := nudb.Report(cfg)
	out := make([]CheckOutput, len(results))
	failed := 0
	for i, r := range results {
		out[i] = CheckOutput{ID: r.Def.ID, Name: r.Def.Name, Passed: r.Passed(), Offenders: r.Offenders}
		if !r.Passed() {
			failed++
		}
	}

	if format := cmdCtx.Cfg.Output; format != config.OutputText {
		if err := renderValue(cmdCtx.Out, "checks", map[string]any{"checks": out}, format); err != nil {
			return err
		}
	} else {
		t := newTable(cmdCtx.Out)
		t.AppendHeader(table.Row{"id", "check", "status", "offenders"})
		for _, c := range out {
			status := "ok"
			if !c.Passed {
				status = "FAILED"
			}
			t.AppendRow(table.Row{c.ID, c.Name, status, strings.Join(c.Offenders, "\n")})
		}
		t.AppendFooter(table.Row{"", fmt.Sprintf("%d variables, %d datasets", cfg.Variables.Len(), cfg.Datasets.Len())})
		t.Render()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	return nil
}

func watchAndValidate(ctx context.Context, cmdCtx *CommandContext, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	layout := cmdCtx.Cfg.Layout
	dirs := []string{layout.ConfigDir}
	if layout.OverridesDir != "" {
		dirs = append(dirs, layout.OverridesDir)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	run := func() {
		if err := validateOnce(cmdCtx); err != nil {
			_, _ = fmt.Fprintf(cmdCtx.Out, "Error: %v\n", err)
		}
		_, _ = fmt.Fprintf(cmdCtx.Out, "Watching %s for changes...\n", strings.Join(dirs, ", "))
	}
	run()
	watchLoop(ctx, cmdCtx, watcher.Events, watcher.Errors, debounce, run)
	return nil
}

// watchLoop calls onChange once per burst of declaration file events, after
// debounce has passed without further events. It returns when ctx is done
// or either channel closes.
func watchLoop(ctx context.Context, cmdCtx *CommandContext, events <-chan fsnotify.Event, errs <-chan error, debounce time.Duration, onChange func()) {
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if _, decl := loader.CategoryOf(filepath.Base(ev.Name)); !decl {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				cmdCtx.Logger.Debug("declaration file changed", "file", ev.Name, "op", ev.Op.String())
				fire = time.After(debounce)
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			cmdCtx.Logger.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			onChange()
		}
	}
}
