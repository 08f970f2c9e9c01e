package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnIndex(t *testing.T) {
	tests := []struct {
		selector string
		want     int
		wantErr  bool
	}{
		{"A", 0, false},
		{"F", 5, false},
		{"U", 20, false},
		{"Z", 25, false},
		{"b", 1, false},
		{" C ", 2, false},
		{"", 0, true},
		{"AA", 0, true},
		{"1", 0, true},
		{"É", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, err := ColumnIndex(tt.selector)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFieldMapping(t *testing.T) {
	m, err := NewFieldMapping("test", map[string]string{
		"Champ de texte 110": "A",
		"Champ de texte 111": "F",
		"Champ de texte 132": "U",
	})
	require.NoError(t, err)

	assert.Equal(t, "test", m.Name())
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"Champ de texte 110", "Champ de texte 111", "Champ de texte 132"}, m.Fields())

	col, ok := m.Lookup("Champ de texte 111")
	require.True(t, ok)
	assert.Equal(t, Column{Selector: "F", Index: 5}, col)

	_, ok = m.Lookup("Champ de texte 999")
	assert.False(t, ok)
}

func TestNewFieldMapping_InvalidSelector(t *testing.T) {
	_, err := NewFieldMapping("bad", map[string]string{"x": "AB"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), `field "x"`)
}

func TestNewFieldMapping_EmptyField(t *testing.T) {
	_, err := NewFieldMapping("bad", map[string]string{"": "A"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestFieldMapping_NilSafe(t *testing.T) {
	var m *FieldMapping
	_, ok := m.Lookup("anything")
	assert.False(t, ok)
	assert.Zero(t, m.Len())
	assert.Nil(t, m.Fields())
}
