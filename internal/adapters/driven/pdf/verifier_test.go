package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

func mergedFiche(t *testing.T) []byte {
	t.Helper()
	base := ficheTemplate()
	out, err := NewMerger(nil).Merge(context.Background(), base, inspect(t, base),
		formOverlay(domain.TextRun{X: 104, Y: 706, Text: "Dupont"}))
	require.NoError(t, err)
	return out
}

func TestVerifier_Verify(t *testing.T) {
	assert.NoError(t, NewVerifier().Verify(mergedFiche(t), 2))
}

func TestVerifier_PageCountMismatch(t *testing.T) {
	err := NewVerifier().Verify(mergedFiche(t), 3)
	assert.True(t, errors.Is(err, domain.ErrPageCountMismatch), "got %v", err)
}

func TestVerifier_Garbage(t *testing.T) {
	err := NewVerifier().Verify([]byte("definitely not a pdf"), 1)
	assert.True(t, errors.Is(err, domain.ErrMalformedDocument), "got %v", err)
}
