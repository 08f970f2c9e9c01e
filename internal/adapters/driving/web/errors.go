// Package web serves the HTML form that runs a batch and lists its documents
// for download. Results are kept per browser session.
package web

import "errors"

var (
	// ErrMissingBatchService is returned when the batch service is not provided.
	ErrMissingBatchService = errors.New("web: batch service is required")

	// ErrMissingResultService is returned when the result service is not provided.
	ErrMissingResultService = errors.New("web: result service is required")

	// ErrMissingSettingsService is returned when the settings service is not provided.
	ErrMissingSettingsService = errors.New("web: settings service is required")
)
