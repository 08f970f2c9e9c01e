package cli

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

func TestGenerateCmd_Flags(t *testing.T) {
	for _, name := range []string{"profile", "source", "document", "mapping", "out", "policy", "concurrency", "no-archive", "save"} {
		assert.NotNil(t, generateCmd.Flags().Lookup(name), name)
	}
}

func TestGenerateCmd_WritesDocumentsAndArchive(t *testing.T) {
	ts := setupTestServices(t)
	dir := t.TempDir()

	out, progress, err := execute(t, "generate", "--profile", "fiches", "--out", dir, "--policy", "continue", "--concurrency", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Generated 2 of 3 documents in "+dir)
	assert.Contains(t, out, "Archive: "+filepath.Join(dir, domain.ArchiveFiches))
	assert.Contains(t, out, "row 2 skipped")
	assert.Contains(t, progress, "[1/2] Dupont_Marie.pdf")
	assert.Contains(t, progress, "[2/2] Martin_Paul.pdf")

	req := ts.batch.lastRun()
	assert.Equal(t, "fiches", req.Profile.Name)
	assert.Equal(t, "https://example.test/fiches.xlsx", req.Profile.Source)
	assert.Equal(t, domain.PolicyContinue, req.Policy)
	assert.Equal(t, 3, req.Concurrency)

	data, err := os.ReadFile(filepath.Join(dir, "Dupont_Marie.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-dupont", string(data))

	zr, err := zip.OpenReader(filepath.Join(dir, domain.ArchiveFiches))
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 2)
	assert.Equal(t, "Dupont_Marie.pdf", zr.File[0].Name)
	assert.Equal(t, "Martin_Paul.pdf", zr.File[1].Name)
}

func TestGenerateCmd_Overrides(t *testing.T) {
	ts := setupTestServices(t)

	_, _, err := execute(t, "generate", "--out", t.TempDir(), "--no-archive",
		"--source", "./inscrits.csv", "--document", "./fiche.pdf", "--mapping", "./map.yaml")
	require.NoError(t, err)

	req := ts.batch.lastRun()
	assert.Equal(t, "./inscrits.csv", req.Profile.Source)
	assert.Equal(t, "./fiche.pdf", req.Profile.Document)
	assert.Equal(t, "./map.yaml", req.Profile.Mapping)
	assert.Empty(t, string(req.Policy))
}

func TestGenerateCmd_NoArchive(t *testing.T) {
	setupTestServices(t)
	dir := t.TempDir()

	out, _, err := execute(t, "generate", "--out", dir, "--no-archive")
	require.NoError(t, err)
	assert.NotContains(t, out, "Archive:")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGenerateCmd_SaveStoresLocations(t *testing.T) {
	ts := setupTestServices(t)

	_, _, err := execute(t, "generate", "--profile", "reglements", "--out", t.TempDir(),
		"--source", "/data/reglements.xlsx", "--document", "/data/reglement.pdf", "--save")
	require.NoError(t, err)

	assert.Equal(t, "/data/reglements.xlsx", ts.config.GetString("profiles.reglements.source"))
	assert.Equal(t, "/data/reglement.pdf", ts.config.GetString("profiles.reglements.document"))
}

func TestGenerateCmd_InvalidPolicy(t *testing.T) {
	ts := setupTestServices(t)

	_, _, err := execute(t, "generate", "--out", t.TempDir(), "--policy", "retry")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, ts.batch.runs)
}

func TestGenerateCmd_UnknownProfile(t *testing.T) {
	setupTestServices(t)

	_, _, err := execute(t, "generate", "--profile", "nope", "--out", t.TempDir())
	assert.ErrorIs(t, err, domain.ErrUnknownProfile)
}

func TestGenerateCmd_BatchErrorWritesNothing(t *testing.T) {
	ts := setupTestServices(t)
	ts.batch.err = &domain.BatchError{Row: 0, Err: domain.ErrFetchFailed}
	dir := filepath.Join(t.TempDir(), "out")

	_, progress, err := execute(t, "generate", "--out", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Contains(t, progress, "[1/1] "+domain.UserMessage(ts.batch.err))

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateCmd_NotConfigured(t *testing.T) {
	SetServices(nil)

	_, _, err := execute(t, "generate")
	assert.ErrorIs(t, err, errNotConfigured)
}
