package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nudb/nudbconfig/internal/cli/config"
	clitest "github.com/nudb/nudbconfig/internal/cli/testutil"
	"github.com/nudb/nudbconfig/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseDir     = "../../../pkg/config/testdata/base"
	externalDir = "../../../pkg/config/testdata/external_tomls_samples"
)

func testContext(t *testing.T, configDir, overridesDir, output string) (*CommandContext, *bytes.Buffer) {
	t.Helper()
	buf := new(bytes.Buffer)
	cfg := &config.Config{
		Output:        output,
		LogLevel:      config.DefaultLogLevel,
		DerivedSource: config.DefaultDerivedSource,
		Layout: &config.Layout{
			ConfigDir:     configDir,
			OverridesDir:  overridesDir,
			DerivedSource: config.DefaultDerivedSource,
		},
	}
	return &CommandContext{Cfg: cfg, Logger: testutil.NewTestLogger(t), Out: buf}, buf
}

func TestNewCommands(t *testing.T) {
	tests := []struct {
		cmd   func() *cobra.Command
		use   string
		flags []string
	}{
		{cmd: NewValidateCommand, use: "validate", flags: []string{"watch", "debounce"}},
		{cmd: NewListCommand, use: "list <variables|datasets|paths>"},
		{cmd: NewShowCommand, use: "show <path>"},
		{cmd: NewGraphCommand, use: "graph [variable]"},
		{cmd: NewDiffCommand, use: "diff <dir>"},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			cmd := tt.cmd()
			assert.Equal(t, tt.use, cmd.Use)
			assert.NotEmpty(t, cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3")
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "nudbconfig v1.2.3")
}

func TestValidateOnce(t *testing.T) {
	cmdCtx, buf := testContext(t, baseDir, "", config.OutputText)
	require.NoError(t, validateOnce(cmdCtx))

	out := buf.String()
	assert.Contains(t, out, "derived-from-acyclic")
	assert.Contains(t, out, "dataset-variables-defined")
	assert.NotContains(t, out, "FAILED")
}

func TestValidateOnce_WithOverrides(t *testing.T) {
	cmdCtx, _ := testContext(t, baseDir, externalDir, config.OutputText)
	assert.NoError(t, validateOnce(cmdCtx))
}

func TestValidateOnce_Failing(t *testing.T) {
	dir := clitest.SetupTestConfig(t, map[string]string{
		"variables.toml": "[variables.fnr]\nunit = \"person\"\ndtype = \"STRING\"\n",
		"datasets.toml":  "[datasets.igang]\nteam = \"utd-nudb\"\nvariables = [\"fnr\", \"snr\", \"kurs_id\"]\n",
	})

	cmdCtx, buf := testContext(t, dir, "", config.OutputText)
	err := validateOnce(cmdCtx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of")

	out := buf.String()
	clitest.AssertNoANSI(t, out)
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "datasets.igang.variables.snr")
	assert.Contains(t, out, "datasets.igang.variables.kurs_id")
}

func TestValidateOnce_JSON(t *testing.T) {
	cmdCtx, buf := testContext(t, baseDir, "", config.OutputJSON)
	require.NoError(t, validateOnce(cmdCtx))

	var got struct {
		Checks []CheckOutput `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.NotEmpty(t, got.Checks)
	for _, c := range got.Checks {
		assert.True(t, c.Passed, c.Name)
	}
}

func TestValidateOnce_MissingDir(t *testing.T) {
	cmdCtx, _ := testContext(t, filepath.Join(t.TempDir(), "finnes_ikke"), "", config.OutputText)
	assert.ErrorContains(t, validateOnce(cmdCtx), "does not exist")
}

func TestRenderValue(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  any
		format string
		want   string
	}{
		{"text scalar", "unit", "person", config.OutputText, "person\n"},
		{"text list", "length", []int{11, 9}, config.OutputText, "11\n9\n"},
		{"toml wraps non-table", "length", []int{11}, config.OutputTOML, "length = [11]\n"},
		{"yaml", "fnr", map[string]any{"unit": "person"}, config.OutputYAML, "unit: person\n"},
		{"json", "length", []int{11}, config.OutputJSON, "[\n  11\n]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			require.NoError(t, renderValue(buf, tt.key, tt.value, tt.format))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRenderValue_TextTable(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, renderValue(buf, "fnr", map[string]any{
		"unit":   "person",
		"length": []any{11},
	}, config.OutputText))

	out := buf.String()
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "person")
	assert.Less(t, strings.Index(out, "length"), strings.Index(out, "unit"), "keys are sorted")
}

func TestNewTable_FooterKeepsCase(t *testing.T) {
	buf := new(bytes.Buffer)
	tbl := newTable(buf)
	tbl.AppendHeader(table.Row{"Name"})
	tbl.AppendRow(table.Row{"fnr"})
	tbl.AppendFooter(table.Row{"1 variables"})
	tbl.Render()

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "1 variables")
	assert.NotContains(t, out, "1 VARIABLES")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "a, b", formatValue([]any{"a", "b"}))
	assert.Equal(t, "{fnr=0, snr=0.1}", formatValue(map[string]any{"snr": 0.1, "fnr": 0}))
	assert.Equal(t, "3", formatValue(3))
}

func TestWatchLoop(t *testing.T) {
	cmdCtx, _ := testContext(t, baseDir, "", config.OutputText)
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	var calls atomic.Int32

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		watchLoop(ctx, cmdCtx, events, errs, 10*time.Millisecond, func() { calls.Add(1) })
		close(done)
	}()

	// a burst of events triggers one run
	events <- fsnotify.Event{Name: "/cfg/variables.toml", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "/cfg/variables.toml", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "/cfg/datasets.toml", Op: fsnotify.Create}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	// unrelated files and chmod are ignored
	events <- fsnotify.Event{Name: "/cfg/README.md", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "/cfg/paths.toml", Op: fsnotify.Chmod}
	errs <- assert.AnError
	assert.Never(t, func() bool { return calls.Load() > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watchLoop did not stop after cancel")
	}
}
