// Package mcp provides an MCP (Model Context Protocol) server adapter for fiches.
// It lets AI assistants generate the documents of a configured profile.
package mcp

import "errors"

var (
	// ErrMissingBatchService is returned when the batch service is not provided.
	ErrMissingBatchService = errors.New("mcp: batch service is required")

	// ErrMissingSettingsService is returned when the settings service is not provided.
	ErrMissingSettingsService = errors.New("mcp: settings service is required")
)
