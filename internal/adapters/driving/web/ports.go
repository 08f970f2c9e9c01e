package web

import "github.com/custodia-labs/fiches/internal/core/ports/driving"

// Ports aggregates the driving ports used by the web form.
type Ports struct {
	Batch    driving.BatchService
	Results  driving.ResultService
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	switch {
	case p == nil || p.Batch == nil:
		return ErrMissingBatchService
	case p.Results == nil:
		return ErrMissingResultService
	case p.Settings == nil:
		return ErrMissingSettingsService
	}
	return nil
}
