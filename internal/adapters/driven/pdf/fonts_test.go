package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

func TestFontRegistry_Register(t *testing.T) {
	tests := []struct {
		name   string
		family string
		data   []byte
	}{
		{"empty family", "  ", []byte{1}},
		{"core font name", "Helvetica", []byte{1}},
		{"empty data", "DejaVu", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFontRegistry().Register(tt.family, tt.data)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestFontRegistry_Has(t *testing.T) {
	r := NewFontRegistry()
	require.NoError(t, r.Register("DejaVu", []byte("ttf")))

	assert.True(t, r.Has("helvetica"))
	assert.True(t, r.Has("Times"))
	assert.True(t, r.Has("dejavu"))
	assert.False(t, r.Has("Roboto"))
}

func TestFontRegistry_RegisterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "font.ttf")
	require.NoError(t, os.WriteFile(path, []byte("ttf"), 0o600))

	r := NewFontRegistry()
	require.NoError(t, r.RegisterFile("Custom", path))
	assert.True(t, r.Has("custom"))

	err := r.RegisterFile("Missing", filepath.Join(t.TempDir(), "nope.ttf"))
	assert.Error(t, err)
	assert.False(t, r.Has("missing"))
}
