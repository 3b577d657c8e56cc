// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

// MinimalSettings is a settings file that satisfies schema validation.
const MinimalSettings = `dapla_team = "utd-nudb"
short_name = "nudb"
`

// SetupTestConfig writes a declaration directory holding files, plus a
// minimal settings file unless files declares one.
func SetupTestConfig(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	if _, ok := files["settings.toml"]; !ok {
		writeFile(t, filepath.Join(tmpDir, "settings.toml"), MinimalSettings)
	}
	for name, content := range files {
		writeFile(t, filepath.Join(tmpDir, name), content)
	}
	return tmpDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Base(path), err)
	}
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// GetTestdataDir returns the path to the shared declaration fixtures.
func GetTestdataDir(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	// Try different relative paths based on where tests are run from
	for dir := wd; ; {
		candidate := filepath.Join(dir, "pkg", "config", "testdata")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	t.Fatalf("testdata directory not found from %s", wd)
	return ""
}
