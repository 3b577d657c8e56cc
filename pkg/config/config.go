package config

import (
	"context"
	"io"
	"log/slog"
	"slices"

	"github.com/nudb/nudbconfig/internal/loader"
	"github.com/nudb/nudbconfig/pkg/core"
	"github.com/nudb/nudbconfig/pkg/dotmap"
)

// Collections held by a Configuration.
type (
	Variables = dotmap.Collection[core.Variable]
	Datasets  = dotmap.Collection[core.Dataset]
	Paths     = dotmap.Collection[core.PathEntry]
)

// Source is one parsed declaration tree; Sources groups them by category.
type (
	Source   = loader.Source
	Sources  = loader.Set
	Category = loader.Category
)

// Categories, in merge order.
const (
	CategorySettings  = loader.CategorySettings
	CategoryVariables = loader.CategoryVariables
	CategoryDatasets  = loader.CategoryDatasets
	CategoryPaths     = loader.CategoryPaths
	CategoryOptions   = loader.CategoryOptions
)

// NewSource wraps an already parsed tree, e.g. one built in code.
func NewSource(category Category, name string, data map[string]any) *Source {
	return loader.FromMap(name, category, data)
}

// topLevelKeys lists the keys each category may declare at the top level.
var topLevelKeys = map[Category][]string{
	CategorySettings:  {"dapla_team", "short_name", "utd_nacekoder"},
	CategoryVariables: {"variables_sort_unit", "variables"},
	CategoryDatasets:  {"datasets"},
	CategoryPaths:     {"paths"},
	CategoryOptions:   {"options"},
}

// Configuration is the root of a loaded NUDB configuration.
//
// Fields are addressed by their toml names through Get, Lookup and the
// dotmap helpers. A Configuration is not safe for concurrent mutation;
// share it read-only after loading.
type Configuration struct {
	DaplaTeam         string        `toml:"dapla_team"`
	ShortName         string        `toml:"short_name"`
	UtdNacekoder      []string      `toml:"utd_nacekoder,omitempty"`
	VariablesSortUnit []string      `toml:"variables_sort_unit,omitempty"`
	Variables         *Variables    `toml:"variables"`
	Datasets          *Datasets     `toml:"datasets"`
	Paths             *Paths        `toml:"paths"`
	Options           *core.Options `toml:"options"`

	logger         *slog.Logger
	derivedSource  string
	codelistExtras map[int]map[string]string
}

func newConfiguration(o *options) *Configuration {
	return &Configuration{
		Variables:      dotmap.NewCollection((*core.Variable).Clone),
		Datasets:       dotmap.NewCollection((*core.Dataset).Clone),
		Paths:          dotmap.NewCollection((*core.PathEntry).Clone),
		Options:        core.DefaultOptions(),
		logger:         o.logger,
		derivedSource:  o.derivedSource,
		codelistExtras: o.codelistExtras,
	}
}

// Logger returns the logger warnings are written to.
func (c *Configuration) Logger() *slog.Logger { return c.logger }

// Settings returns the settings category as a file record.
func (c *Configuration) Settings() *core.SettingsFile {
	return &core.SettingsFile{
		DaplaTeam:    c.DaplaTeam,
		ShortName:    c.ShortName,
		UtdNacekoder: slices.Clone(c.UtdNacekoder),
	}
}

// Variable returns the named variable.
func (c *Configuration) Variable(name string) (*core.Variable, bool) {
	return c.Variables.Entry(name)
}

// Dataset returns the named dataset.
func (c *Configuration) Dataset(name string) (*core.Dataset, bool) {
	return c.Datasets.Entry(name)
}

// Path returns the named path entry.
func (c *Configuration) Path(name string) (*core.PathEntry, bool) {
	return c.Paths.Entry(name)
}

// Record returns a record view of the configuration root.
func (c *Configuration) Record() *dotmap.Record { return dotmap.NewRecord(c) }

// Get implements dotmap.Gettable.
func (c *Configuration) Get(key string) (any, bool) { return c.Record().Get(key) }

// Contains implements dotmap.Gettable.
func (c *Configuration) Contains(key string) bool { return c.Record().Contains(key) }

// Keys implements dotmap.Gettable.
func (c *Configuration) Keys() []string { return c.Record().Keys() }

// Values implements dotmap.Gettable.
func (c *Configuration) Values() []any { return c.Record().Values() }

// Items implements dotmap.Gettable.
func (c *Configuration) Items() []dotmap.Item { return c.Record().Items() }

// Len implements dotmap.Gettable.
func (c *Configuration) Len() int { return c.Record().Len() }

// Lookup returns the value at a dotted path such as "variables.fnr.length".
func (c *Configuration) Lookup(path string) (any, error) {
	return dotmap.GetPath(c, path)
}

// Clone returns a deep copy that shares nothing mutable with c.
func (c *Configuration) Clone() *Configuration {
	cp := *c
	cp.UtdNacekoder = slices.Clone(c.UtdNacekoder)
	cp.VariablesSortUnit = slices.Clone(c.VariablesSortUnit)
	cp.Variables = c.Variables.Clone()
	cp.Datasets = c.Datasets.Clone()
	cp.Paths = c.Paths.Clone()
	cp.Options = c.Options.Clone()
	return &cp
}

// quiet returns a deep copy of c that discards log output.
func (c *Configuration) quiet() *Configuration {
	cp := c.Clone()
	cp.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return cp
}

type configKey struct{}

// NewContext returns a context carrying cfg. Load once at startup, then
// treat the configuration carried in the context as read-only.
func NewContext(ctx context.Context, cfg *Configuration) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the configuration stored by NewContext.
func FromContext(ctx context.Context) (*Configuration, bool) {
	cfg, ok := ctx.Value(configKey{}).(*Configuration)
	return cfg, ok
}
