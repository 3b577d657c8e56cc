package config

import (
	"path/filepath"

	"github.com/nudb/nudbconfig/internal/loader"
)

// maxUpwardSearchLevels limits how far FindConfigRoot walks up.
const maxUpwardSearchLevels = 10

// FindConfigDir returns the declaration directory for dir: dir itself when
// it holds declaration files, otherwise its DefaultConfigDir child when that
// does. Returns empty string if neither does.
func FindConfigDir(dir string) string {
	if loader.HasDeclarations(dir) {
		return dir
	}
	nested := filepath.Join(dir, DefaultConfigDir)
	if loader.HasDeclarations(nested) {
		return nested
	}
	return ""
}

// FindConfigRoot walks up from startDir to the first directory for which
// FindConfigDir succeeds and returns that declaration directory.
// Returns empty string if not found.
func FindConfigRoot(startDir string) string {
	dir := startDir
	for range maxUpwardSearchLevels {
		if found := FindConfigDir(dir); found != "" {
			return found
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
	return ""
}

// Resolve builds a Layout from an explicit config directory, falling back to
// an upward search from startDir. Relative paths are made absolute against
// startDir.
func Resolve(explicit, overrides, startDir string) *Layout {
	l := &Layout{OverridesDir: resolvePathRelativeTo(overrides, startDir)}
	if explicit != "" {
		l.ConfigDir = resolvePathRelativeTo(explicit, startDir)
	} else {
		l.ConfigDir = FindConfigRoot(startDir)
	}
	if l.ConfigDir != "" {
		l.Root = filepath.Dir(l.ConfigDir)
	}
	ApplyDefaults(l)
	return l
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
