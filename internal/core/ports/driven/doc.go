// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SourceFetcher: Retrieves spreadsheets and PDFs from a location
//   - SpreadsheetReader: Parses spreadsheet bytes into data rows
//   - TemplateInspector: Reads page boxes and named widgets of a PDF
//   - PageMerger: Draws an overlay onto document pages
//   - Packager: Bundles generated documents into an archive
//   - MappingLoader: Loads field mappings
//   - ResultStore: Holds batch results per session
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
