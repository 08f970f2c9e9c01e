// Package domain defines the core business entities for fiches.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FieldMapping: form field name to spreadsheet column
//   - SourceRow: one data row of the source spreadsheet
//   - TemplateLayout: the pages and named widgets of a PDF document
//   - Overlay: text runs to draw on top of document pages
//   - BatchResult: the named documents produced by one batch
//   - Profile: a named batch configuration (mode, locations, positions)
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
