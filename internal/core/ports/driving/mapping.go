package driving

import "github.com/custodia-labs/fiches/internal/core/domain"

// MappingService resolves the field mapping a profile renders with.
type MappingService interface {
	// Resolve returns the profile's field mapping. Stamp profiles have none
	// and return domain.ErrInvalidInput.
	Resolve(profile domain.Profile) (*domain.FieldMapping, error)
}
