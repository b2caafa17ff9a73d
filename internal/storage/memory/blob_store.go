package memory

import (
	"context"
	"sync"

	"assetra/internal/storage"
)

// BlobStore is an in-memory implementation of storage.BlobStore.
type BlobStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewBlobStore creates a new in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{
		data: make(map[string][]byte),
	}
}

// Get retrieves the blob stored under key. Returns ErrNotFound if absent.
func (s *BlobStore) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.data[key]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy to prevent external mutation
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put stores data under key, replacing any previous value.
func (s *BlobStore) Put(_ context.Context, key string, data []byte) error {
	if key == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.data[key] = stored
	return nil
}

// Verify interface compliance at compile time.
var _ storage.BlobStore = (*BlobStore)(nil)
