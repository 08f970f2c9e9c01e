// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The batch pipeline lives here: the form-fill and stamp row
// renderers, the two RowPipeline strategies built on them, and
// BatchService, which runs a strategy over every spreadsheet row.
package services
