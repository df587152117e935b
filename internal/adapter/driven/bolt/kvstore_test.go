package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*KVStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "explorer.bolt")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, path
}

func TestKVStore_Get_EmptySlot(t *testing.T) {
	store, _ := openTestStore(t)

	value, ok, err := store.Get(context.Background(), "@GithubExplorer")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", value)
}

func TestKVStore_SetThenGet(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "@GithubExplorer", `[{"full_name":"facebook/react"}]`))
	require.NoError(t, store.Set(ctx, "@GithubExplorer", `[{"full_name":"golang/go"}]`))

	value, ok, err := store.Get(ctx, "@GithubExplorer")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"full_name":"golang/go"}]`, value)
}

func TestKVStore_SurvivesReopen(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "@GithubExplorer", `[]`))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	value, ok, err := reopened.Get(ctx, "@GithubExplorer")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, value)
}

func TestKVStore_CancelledContext(t *testing.T) {
	store, _ := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Set(ctx, "k", "v"), context.Canceled)

	_, _, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
