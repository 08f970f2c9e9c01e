// Package file provides file-based implementations of driven port interfaces.
// These adapters read and persist data on the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML configuration in ~/.fiches/config.toml
//   - MappingStore: field mappings from TOML or YAML files, with a built-in default
//   - MappingWatcher: reloads mapping files when they change on disk
package file
