package postgres

import (
	"context"
	"fmt"

	"assetra/internal/storage"
)

// BlobStore implements storage.BlobStore using PostgreSQL. Blobs live in
// the ledger_blobs table, one row per key, replaced whole on every write.
type BlobStore struct {
	pool *Pool
}

// NewBlobStore creates a new BlobStore.
func NewBlobStore(pool *Pool) *BlobStore {
	return &BlobStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BlobStore = (*BlobStore)(nil)

// Get retrieves the blob stored under key. Returns ErrNotFound if absent.
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `SELECT data FROM ledger_blobs WHERE key = $1`

	var data []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&data)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get blob %q: %w", key, err)
	}
	return data, nil
}

// Put stores data under key, replacing any previous value.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO ledger_blobs (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, updated_at = now()
	`

	if _, err := s.pool.Exec(ctx, query, key, data); err != nil {
		return fmt.Errorf("put blob %q: %w", key, err)
	}
	return nil
}
