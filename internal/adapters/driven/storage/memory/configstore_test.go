package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"profiles.fiches.source": "https://example.com/a.xlsx",
		"batch.concurrency":      int64(4),
	}, map[string]any{
		"batch.concurrency": int64(8),
	})

	assert.Equal(t, "https://example.com/a.xlsx", store.GetString("profiles.fiches.source"))
	assert.Equal(t, 8, store.GetInt("batch.concurrency"), "later seeds win")
	assert.Equal(t, []string{"batch.concurrency", "profiles.fiches.source"}, store.Keys())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "value"))
	require.NoError(t, store.Set("i", 42))
	require.NoError(t, store.Set("i64", int64(7)))
	require.NoError(t, store.Set("f", 10.5))
	require.NoError(t, store.Set("b", true))
	require.NoError(t, store.Set("slice", []any{"a", 1, "b"}))

	assert.Equal(t, "value", store.GetString("s"))
	assert.Equal(t, "", store.GetString("i"))
	assert.Equal(t, 42, store.GetInt("i"))
	assert.Equal(t, 7, store.GetInt("i64"))
	assert.Equal(t, 10, store.GetInt("f"))
	assert.Equal(t, 10.5, store.GetFloat("f"))
	assert.Equal(t, 42.0, store.GetFloat("i"))
	assert.Equal(t, 7.0, store.GetFloat("i64"))
	assert.Zero(t, store.GetFloat("s"))
	assert.True(t, store.GetBool("b"))
	assert.False(t, store.GetBool("s"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("slice"))
	assert.Nil(t, store.GetStringSlice("missing"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_NoOps(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
	assert.Empty(t, store.Keys())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("k%d", i), i)
		}()
		go func() {
			defer wg.Done()
			_ = store.Keys()
			_ = store.GetInt(fmt.Sprintf("k%d", i))
		}()
	}
	wg.Wait()
	assert.Len(t, store.Keys(), 20)
}
