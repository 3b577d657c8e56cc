// Package config builds and maintains the NUDB configuration.
//
// A Configuration is assembled from TOML declaration files grouped by
// category (settings, variables, datasets, paths, options), checked for
// cross-reference consistency, and may then be customized by applying
// override files:
//
//	cfg, err := config.Load("config_tomls")
//	if err != nil {
//		return err
//	}
//	if err := cfg.ApplyOverridesFromDir("team_overrides"); err != nil {
//		return err
//	}
//
// Loading and merging are all-or-nothing. A failed ApplyOverrides leaves the
// configuration exactly as it was.
//
// Non-fatal findings (unknown keys, redundant overrides, redefinitions) are
// logged as warnings through the configured slog.Logger.
package config
