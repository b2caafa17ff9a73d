package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetra/internal/storage"
)

func TestBlobStore_PutAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBlobStore(pool)
	ctx := context.Background()

	err := store.Put(ctx, storage.KeyTokens, []byte(`[{"id":"t1"}]`))
	require.NoError(t, err)

	got, err := store.Get(ctx, storage.KeyTokens)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"t1"}]`, string(got))
}

func TestBlobStore_PutReplacesWholeBlob(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBlobStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, storage.KeyTrades, []byte(`[]`)))
	require.NoError(t, store.Put(ctx, storage.KeyTrades, []byte(`[{"id":"tr1"}]`)))

	got, err := store.Get(ctx, storage.KeyTrades)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"tr1"}]`, string(got))
}

func TestBlobStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBlobStore(pool)

	_, err := store.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBlobStore_IndependentKeys(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBlobStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, storage.KeyTokens, []byte(`["tokens"]`)))
	require.NoError(t, store.Put(ctx, storage.KeyTrades, []byte(`["trades"]`)))

	tokens, err := store.Get(ctx, storage.KeyTokens)
	require.NoError(t, err)
	trades, err := store.Get(ctx, storage.KeyTrades)
	require.NoError(t, err)

	assert.JSONEq(t, `["tokens"]`, string(tokens))
	assert.JSONEq(t, `["trades"]`, string(trades))
}
