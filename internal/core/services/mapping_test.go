package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

func TestMappingService_Resolve(t *testing.T) {
	svc := NewMappingService(&fakeMappings{mapping: ficheMapping()})

	m, err := svc.Resolve(domain.Profile{Name: "fiches", Mode: domain.ModeForm})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
}

func TestMappingService_StampHasNoMapping(t *testing.T) {
	svc := NewMappingService(&fakeMappings{mapping: ficheMapping()})

	_, err := svc.Resolve(domain.Profile{Name: "reglements", Mode: domain.ModeStamp})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestMappingService_LoadError(t *testing.T) {
	svc := NewMappingService(&fakeMappings{err: domain.ErrInvalidInput})

	_, err := svc.Resolve(domain.Profile{Name: "fiches", Mode: domain.ModeForm, Mapping: "x.toml"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Contains(t, err.Error(), "fiches")
}
