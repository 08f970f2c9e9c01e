package driven

import "github.com/custodia-labs/fiches/internal/core/domain"

// MappingLoader loads field mappings.
type MappingLoader interface {
	// Load reads the mapping at location. An empty location returns
	// the built-in mapping.
	Load(location string) (*domain.FieldMapping, error)
}
