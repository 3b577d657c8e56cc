// Package core defines the typed entities of a NUDB configuration.
//
// This package contains:
//   - Entities (Variable, Dataset, PathEntry, Options)
//   - Declaration file schemas (VariablesFile, DatasetsFile, PathsFile,
//     SettingsFile, OptionsFile)
//   - Record-level schema validation (Validate methods)
//
// Rules that need more than one record, such as "every dataset variable is
// defined", live in pkg/config.
//
// pkg/core imports only stdlib and go.uber.org/multierr.
package core
