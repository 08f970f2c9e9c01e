package mcp

import (
	"github.com/custodia-labs/fiches/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Batch runs the document pipeline.
	Batch driving.BatchService

	// Settings resolves profiles.
	Settings driving.SettingsService

	// Results packages archives. Without it no archive is written.
	Results driving.ResultService

	// Mappings resolves form mappings. Without it mapping resources are not found.
	Mappings driving.MappingService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Batch == nil {
		return ErrMissingBatchService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
