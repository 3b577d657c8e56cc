// Package main provides tests for the nudbconfig CLI.
package main

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/nudb/nudbconfig/internal/cli"
	"github.com/nudb/nudbconfig/internal/cli/testutil"
)

var footerPattern = regexp.MustCompile(`\d+ variables`)

func testdataDir(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(testutil.GetTestdataDir(t), name)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := execute(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "nudbconfig") {
		t.Errorf("version output should contain 'nudbconfig', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := execute(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	for _, expected := range []string{"validate", "list", "show", "graph", "diff", "version"} {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	output, err := execute(t, "validate", "--config-dir", testdataDir(t, "base"))
	if err != nil {
		t.Fatalf("validate command error = %v\n%s", err, output)
	}
	if !strings.Contains(output, "dataset-variables-defined") {
		t.Errorf("validate output should list checks, got: %s", output)
	}
}

func TestListCommand(t *testing.T) {
	output, err := execute(t, "list", "variables", "--config-dir", testdataDir(t, "base"))
	if err != nil {
		t.Fatalf("list command error = %v", err)
	}
	for _, expected := range []string{"fnr", "utd_hoeyeste_nus2000_label"} {
		if !strings.Contains(output, expected) {
			t.Errorf("list output should contain '%s', got: %s", expected, output)
		}
	}
	if !footerPattern.MatchString(output) {
		t.Errorf("list output should end with a lowercase count footer, got: %s", output)
	}
}

func TestListCommand_InvalidKind(t *testing.T) {
	if _, err := execute(t, "list", "tables", "--config-dir", testdataDir(t, "base")); err == nil {
		t.Error("list with an unknown collection should fail")
	}
}

func TestShowCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "json",
			args: []string{"show", "variables.fnr.length", "-o", "json"},
			want: "[\n  11\n]\n",
		},
		{
			name: "with overrides",
			args: []string{"show", "variables.fnr.length", "-o", "json", "--overrides", testdataDir(t, "external_tomls_samples")},
			want: "[\n  11,\n  9\n]\n",
		},
		{
			name: "toml",
			args: []string{"show", "paths.local_daplalab.katalog", "-o", "toml"},
			want: "katalog = \"/buckets/produkt/nudb\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(t, append(tt.args, "--config-dir", testdataDir(t, "base"))...)
			if err != nil {
				t.Fatalf("show command error = %v", err)
			}
			if output != tt.want {
				t.Errorf("show output = %q, want %q", output, tt.want)
			}
		})
	}
}

func TestShowCommand_MissingPath(t *testing.T) {
	if _, err := execute(t, "show", "variables.finnes_ikke", "--config-dir", testdataDir(t, "base")); err == nil {
		t.Error("show of a missing path should fail")
	}
}

func TestGraphCommand(t *testing.T) {
	output, err := execute(t, "graph", "utd_hoeyeste_nus2000", "--config-dir", testdataDir(t, "base"))
	if err != nil {
		t.Fatalf("graph command error = %v", err)
	}
	if !strings.Contains(output, "upstream: fnr, nus2000") {
		t.Errorf("graph output should list upstream variables, got: %s", output)
	}

	output, err = execute(t, "graph", "--config-dir", testdataDir(t, "base"))
	if err != nil {
		t.Fatalf("graph command error = %v", err)
	}
	if !strings.Contains(output, "Level 1:") {
		t.Errorf("graph output should contain derivation levels, got: %s", output)
	}
}

func TestDiffCommand(t *testing.T) {
	output, err := execute(t, "diff", testdataDir(t, "external_tomls_samples"), "--config-dir", testdataDir(t, "base"))
	if err != nil {
		t.Fatalf("diff command error = %v", err)
	}
	for _, expected := range []string{"variables.fullfort_gk", "variables.snr_mrk", "removed", "added"} {
		if !strings.Contains(output, expected) {
			t.Errorf("diff output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestInvalidOutputFlag(t *testing.T) {
	_, err := execute(t, "list", "variables", "-o", "xml", "--config-dir", testdataDir(t, "base"))
	if err == nil || !strings.Contains(err.Error(), "invalid output") {
		t.Errorf("expected invalid output error, got %v", err)
	}
}
