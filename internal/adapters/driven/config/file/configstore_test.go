package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Path(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "fiches")

	_, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigStore_LoadsTables(t *testing.T) {
	dir := t.TempDir()
	content := `
[fetch]
timeout_seconds = 30
requests_per_second = 2.5
user_agent = "fiches/1.0"

[batch]
verify = true

[profiles.fiches]
source = "https://example.org/eleves.xlsx"
inset_x = 4

[profiles.reglements]
name_x = 150.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 30, store.GetInt("fetch.timeout_seconds"))
	assert.InDelta(t, 2.5, store.GetFloat("fetch.requests_per_second"), 1e-9)
	assert.Equal(t, "fiches/1.0", store.GetString("fetch.user_agent"))
	assert.True(t, store.GetBool("batch.verify"))
	assert.Equal(t, "https://example.org/eleves.xlsx", store.GetString("profiles.fiches.source"))
	assert.InDelta(t, 4.0, store.GetFloat("profiles.fiches.inset_x"), 1e-9, "integers widen")
	assert.InDelta(t, 150.5, store.GetFloat("profiles.reglements.name_x"), 1e-9)

	assert.Equal(t, []string{
		"batch.verify",
		"fetch.requests_per_second",
		"fetch.timeout_seconds",
		"fetch.user_agent",
		"profiles.fiches.inset_x",
		"profiles.fiches.source",
		"profiles.reglements.name_x",
	}, store.Keys())
}

func TestConfigStore_TypeMismatch(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "text"))

	assert.Equal(t, 0, store.GetInt("k"))
	assert.Zero(t, store.GetFloat("k"))
	assert.False(t, store.GetBool("k"))
	assert.Nil(t, store.GetStringSlice("k"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_SetPersistsNested(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("profiles.fiches.source", "/data/eleves.xlsx"))
	require.NoError(t, store.Set("profiles.fiches.document", "/data/fiche.pdf"))
	require.NoError(t, store.Set("server.listen", "127.0.0.1:9000"))
	require.NoError(t, store.Set("mapping.extensions", []string{".toml", ".yaml"}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[profiles.fiches]")
	assert.Contains(t, string(data), "[server]")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "/data/eleves.xlsx", reloaded.GetString("profiles.fiches.source"))
	assert.Equal(t, "/data/fiche.pdf", reloaded.GetString("profiles.fiches.document"))
	assert.Equal(t, "127.0.0.1:9000", reloaded.GetString("server.listen"))
	assert.Equal(t, []string{".toml", ".yaml"}, reloaded.GetStringSlice("mapping.extensions"))
}

func TestConfigStore_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("= broken"), 0o600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a":     1,
		"a.b":   2,
		"c.d.e": "x",
		"c.f":   true,
	})

	assert.Equal(t, map[string]any{
		"a": 1,
		"c": map[string]any{
			"d": map[string]any{"e": "x"},
			"f": true,
		},
	}, nested)
}
