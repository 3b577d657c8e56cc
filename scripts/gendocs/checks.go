package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	nudb "github.com/nudb/nudbconfig/pkg/config"
)

// generateChecksDocs writes the cross-reference check reference.
func generateChecksDocs(outDir string) error {
	log.Printf("Generating check docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	checks := nudb.Checks()
	w := NewMarkdownWriter()
	w.Frontmatter("Checks", "Cross-reference checks run by nudbconfig validate")
	w.GeneratedMarker()

	w.Header(1, "Checks")
	w.Paragraph(fmt.Sprintf("nudbconfig runs %d checks after loading. "+
		"Each check reports every offender at once as a dotted path. "+
		"A derivation cycle stops loading before the other checks run.", len(checks)))

	headers := []string{"ID", "Name", "Group", "Description"}
	rows := make([][]string, 0, len(checks))
	for _, c := range checks {
		rows = append(rows, []string{InlineCode(c.ID), InlineCode(c.Name), c.Group, cleanDescription(c.Description)})
	}
	w.Table(headers, rows)

	for _, group := range groupChecks(checks) {
		w.Header(2, capitalizeFirst(group.name))
		for _, c := range group.checks {
			w.Header(3, fmt.Sprintf("%s %s", c.ID, c.Name))
			w.Paragraph(c.Description)
			w.CodeBlock("bash", "nudbconfig validate -o json | jq '.checks[] | select(.name == \""+c.Name+"\")'")
		}
	}

	filename := filepath.Join(outDir, "checks.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated checks.md")
	return nil
}

type checkGroup struct {
	name   string
	checks []nudb.CheckDef
}

func groupChecks(checks []nudb.CheckDef) []checkGroup {
	byGroup := make(map[string][]nudb.CheckDef)
	for _, c := range checks {
		byGroup[c.Group] = append(byGroup[c.Group], c)
	}
	groups := make([]checkGroup, 0, len(byGroup))
	for name, cs := range byGroup {
		groups = append(groups, checkGroup{name: name, checks: cs})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].name < groups[j].name })
	return groups
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
