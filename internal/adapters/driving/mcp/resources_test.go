package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestMappingProfile(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"fiches://profiles/fiches/mapping", "fiches"},
		{"fiches://profiles/mes%20fiches/mapping", "mes fiches"},
		{"fiches://profiles//mapping", ""},
		{"fiches://profiles/a/b/mapping", ""},
		{"fiches://profiles/fiches", ""},
		{"file://profiles/fiches/mapping", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, mappingProfile(tt.uri))
		})
	}
}

func TestServer_handleProfilesResource(t *testing.T) {
	server, err := NewServer(&Ports{Batch: &mockBatchService{}, Settings: newMockSettings()})
	require.NoError(t, err)

	result, err := server.handleProfilesResource(context.Background(), readRequest(profilesURI))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var profiles []ProfileOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &profiles))
	require.Len(t, profiles, 3)
	assert.Equal(t, "fiches", profiles[1].Name)
	assert.True(t, profiles[1].Ready)
}

func TestServer_handleMappingResource(t *testing.T) {
	ctx := context.Background()
	uri := "fiches://profiles/fiches/mapping"

	t.Run("returns the resolved mapping", func(t *testing.T) {
		m, err := domain.NewFieldMapping("builtin", map[string]string{
			"Champ de texte 110": "A",
			"Champ de texte 123": "B",
		})
		require.NoError(t, err)
		mappings := &mockMappingService{mapping: m}
		server, err := NewServer(&Ports{Batch: &mockBatchService{}, Settings: newMockSettings(), Mappings: mappings})
		require.NoError(t, err)

		result, err := server.handleMappingResource(ctx, readRequest(uri))
		require.NoError(t, err)
		assert.Equal(t, "fiches", mappings.got)

		var out MappingOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &out))
		assert.Equal(t, "fiches", out.Profile)
		assert.Equal(t, "builtin", out.Mapping)
		assert.Contains(t, out.Fields, FieldBinding{Field: "Champ de texte 110", Column: "A"})
		assert.Contains(t, out.Fields, FieldBinding{Field: "Champ de texte 123", Column: "B"})
	})

	t.Run("unknown profile is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Batch: &mockBatchService{}, Settings: newMockSettings(), Mappings: &mockMappingService{}})
		require.NoError(t, err)

		_, err = server.handleMappingResource(ctx, readRequest("fiches://profiles/nope/mapping"))
		assert.Error(t, err)
	})

	t.Run("without a mapping service", func(t *testing.T) {
		server, err := NewServer(&Ports{Batch: &mockBatchService{}, Settings: newMockSettings()})
		require.NoError(t, err)

		_, err = server.handleMappingResource(ctx, readRequest(uri))
		assert.Error(t, err)
	})

	t.Run("stamp profile has no mapping", func(t *testing.T) {
		mappings := &mockMappingService{err: domain.ErrInvalidInput}
		server, err := NewServer(&Ports{Batch: &mockBatchService{}, Settings: newMockSettings(), Mappings: mappings})
		require.NoError(t, err)

		_, err = server.handleMappingResource(ctx, readRequest("fiches://profiles/reglements/mapping"))
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}
