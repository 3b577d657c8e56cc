package config

import "maps"

// Classification codelists whose published code sets lack codes that occur
// in NUDB data.
const (
	CodelistCountries      = 91  // Landkoder
	CodelistMunicipalities = 131 // Kommuneinndeling
)

// DefaultCodelistExtras returns the built-in codes added to every variable
// that links to one of the listed codelists.
func DefaultCodelistExtras() map[int]map[string]string {
	return map[int]map[string]string{
		CodelistCountries: {
			"151": "DDR / Øst-Tyskland",
			"135": "SSSR / Sovjetunionen",
		},
		CodelistMunicipalities: {
			"2580": "360s definerte Utland",
			"2111": "Longyearbyen arealplanområde",
		},
	}
}

// applyCodelistExtras adds the configured extra codes to variables linked to
// a known codelist. Codes the variable already declares are kept. When only
// is non-nil, variables outside it are left alone.
func (c *Configuration) applyCodelistExtras(only map[string]bool) {
	for name, v := range c.Variables.All() {
		if v.KlassCodelist == nil || (only != nil && !only[name]) {
			continue
		}
		extras, ok := c.codelistExtras[*v.KlassCodelist]
		if !ok {
			continue
		}
		if v.CodelistExtras == nil {
			v.CodelistExtras = make(map[string]string, len(extras))
		}
		for code, label := range extras {
			if _, exists := v.CodelistExtras[code]; !exists {
				v.CodelistExtras[code] = label
			}
		}
	}
}

// codelistTouched returns the variables whose klass_codelist is set by srcs.
func codelistTouched(srcs []*Source) map[string]bool {
	out := make(map[string]bool)
	for _, src := range srcs {
		entries, _ := src.Data["variables"].(map[string]any)
		for name, entry := range entries {
			table, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if val, ok := table["klass_codelist"]; ok && !IsDeleteSentinel(val) {
				out[name] = true
			}
		}
	}
	return out
}

// CodelistExtras returns the augmentation table in effect.
func (c *Configuration) CodelistExtras() map[int]map[string]string {
	out := make(map[int]map[string]string, len(c.codelistExtras))
	for id, codes := range c.codelistExtras {
		out[id] = maps.Clone(codes)
	}
	return out
}
