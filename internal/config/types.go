// Package config locates NUDB declaration directories on disk.
// It is shared by the CLI and anything else that needs to find a
// configuration without being told where it is.
package config

import (
	"fmt"
	"os"
)

// Layout describes where the declaration files of one configuration live.
type Layout struct {
	Root          string `koanf:"root"`
	ConfigDir     string `koanf:"config_dir"`
	OverridesDir  string `koanf:"overrides_dir"`
	DerivedSource string `koanf:"derived_source"`
}

// Validate checks that the configured directories exist.
func (l *Layout) Validate() error {
	if l.ConfigDir == "" {
		return fmt.Errorf("config_dir is required")
	}
	if err := requireDir(l.ConfigDir); err != nil {
		return fmt.Errorf("config directory %w\nHint: use --config-dir to point at a directory of declaration files", err)
	}
	if l.OverridesDir != "" {
		if err := requireDir(l.OverridesDir); err != nil {
			return fmt.Errorf("overrides directory %w", err)
		}
	}
	return nil
}

func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("does not exist: %s", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("is not a directory: %s", dir)
	}
	return nil
}
