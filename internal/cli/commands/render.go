package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nudb/nudbconfig/internal/cli/config"
	"github.com/nudb/nudbconfig/pkg/dotmap"
	"gopkg.in/yaml.v3"
)

// renderValue writes v in the requested format. key names the value when
// the format needs a table at the top level.
func renderValue(w io.Writer, key string, v any, format string) error {
	plain := dotmap.ToPlain(v)
	switch format {
	case config.OutputJSON:
		return renderJSON(w, plain)
	case config.OutputYAML:
		return renderYAML(w, plain)
	case config.OutputTOML:
		return renderTOML(w, key, plain)
	default:
		return renderText(w, plain)
	}
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func renderTOML(w io.Writer, key string, v any) error {
	if _, ok := v.(map[string]any); !ok {
		v = map[string]any{key: v}
	}
	return toml.NewEncoder(w).Encode(v)
}

// renderText prints scalars as is, lists one item per line, and tables as a
// key/value table.
func renderText(w io.Writer, v any) error {
	switch tv := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(tv))
		for k := range tv {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		t := newTable(w)
		t.AppendHeader(table.Row{"key", "value"})
		for _, k := range keys {
			t.AppendRow(table.Row{k, formatValue(tv[k])})
		}
		t.Render()
	case []any:
		for _, item := range tv {
			_, _ = fmt.Fprintln(w, formatValue(item))
		}
	default:
		_, _ = fmt.Fprintln(w, formatValue(tv))
	}
	return nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	// Footers carry counts like "10 variables"; keep their case.
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// formatValue renders one cell. Nested tables are shown inline.
func formatValue(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case []any:
		parts := make([]string, len(tv))
		for i, item := range tv {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(tv))
		for k := range tv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + formatValue(tv[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprint(v)
}
