package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

func TestFSStore_PutGetDelete(t *testing.T) {
	t.Parallel()

	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	data := []byte(`{"name":"Oscar Wilde"}`)

	require.NoError(t, store.Put(ctx, "backups/2026-08-29/authors.json.gz", data))

	got, err := store.Get(ctx, "backups/2026-08-29/authors.json.gz")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, store.Delete(ctx, "backups/2026-08-29/authors.json.gz"))

	_, err = store.Get(ctx, "backups/2026-08-29/authors.json.gz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFSStore_PutOverwrites(t *testing.T) {
	t.Parallel()

	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "a/b.txt", []byte("one")))
	require.NoError(t, store.Put(ctx, "a/b.txt", []byte("two")))

	got, err := store.Get(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestFSStore_DeleteMissingIsNoop(t *testing.T) {
	t.Parallel()

	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "never/written.bin"))
}

func TestFSStore_RejectsEscapingKeys(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := NewFSStore(root)
	require.NoError(t, err)

	ctx := context.Background()
	for _, key := range []string{"../outside.txt", "/etc/passwd", "a/../../b", "."} {
		assert.Error(t, store.Put(ctx, key, []byte("x")), "key %q", key)
	}

	// Nothing may leak outside the root.
	entries, err := os.ReadDir(filepath.Dir(root))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, "outside.txt", e.Name())
	}
}

func TestFSStore_CanceledContext(t *testing.T) {
	t.Parallel()

	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.Put(ctx, "k", []byte("v")))
	_, err = store.Get(ctx, "k")
	assert.Error(t, err)
}
