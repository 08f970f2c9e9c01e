package services

import (
	"fmt"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
	"github.com/custodia-labs/fiches/internal/core/ports/driving"
)

// Ensure MappingService implements the interface.
var _ driving.MappingService = (*MappingService)(nil)

// MappingService resolves profile mappings through a loader.
type MappingService struct {
	loader driven.MappingLoader
}

// NewMappingService creates a new mapping service.
func NewMappingService(loader driven.MappingLoader) *MappingService {
	return &MappingService{loader: loader}
}

// Resolve implements driving.MappingService.
func (s *MappingService) Resolve(profile domain.Profile) (*domain.FieldMapping, error) {
	if profile.Mode != domain.ModeForm {
		return nil, fmt.Errorf("%w: profile %q uses %s mode, which has no field mapping",
			domain.ErrInvalidInput, profile.Name, profile.Mode)
	}
	m, err := s.loader.Load(profile.Mapping)
	if err != nil {
		return nil, fmt.Errorf("load mapping for %s: %w", profile.Name, err)
	}
	return m, nil
}
