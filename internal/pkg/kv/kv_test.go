package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemory()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "a", "2"))

	val, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", val)

	require.NoError(t, store.Delete(ctx, "a"))
	_, ok, err = store.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting a missing key is not an error.
	require.NoError(t, store.Delete(ctx, "a"))
}

func TestMemoryStoreKeysPrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, "summary:youtube:a", "1"))
	require.NoError(t, store.Set(ctx, "summary:youtube:b", "2"))
	require.NoError(t, store.Set(ctx, "settings", "3"))

	keys, err := store.Keys(ctx, "summary:")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"summary:youtube:a", "summary:youtube:b"}, keys)

	keys, err = store.Keys(ctx, "nope:")
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	store, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "settings", `{"theme":"dark"}`))
	require.NoError(t, store.Set(ctx, "prompts", `[]`))
	require.NoError(t, store.Delete(ctx, "prompts"))

	reopened, err := OpenFile(path)
	require.NoError(t, err)

	val, ok, err := reopened.Get(ctx, "settings")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"theme":"dark"}`, val)

	_, ok, err = reopened.Get(ctx, "prompts")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileStoreEmptyFileStartsFresh(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.json")
	store, err := OpenFile(path)
	require.NoError(t, err)

	keys, err := store.Keys(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, keys)
}
