// Package tui provides terminal views for fiches.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/fiches/internal/core/ports/driving"
)

// Ports aggregates the driving ports the terminal views use.
type Ports struct {
	// Batch runs document generation.
	Batch driving.BatchService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Batch == nil {
		return ErrMissingBatchService
	}
	return nil
}
