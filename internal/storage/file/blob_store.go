// Package file provides a durable file-backed blob store. Each key is kept
// in its own file under the data directory; writes go through a temp file
// and rename so a crashed write never leaves a torn blob behind.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"assetra/internal/storage"
)

// BlobStore is a file-backed implementation of storage.BlobStore.
type BlobStore struct {
	dir string
	mu  sync.Mutex
}

// NewBlobStore creates the data directory if needed and returns a store
// rooted at dir.
func NewBlobStore(dir string) (*BlobStore, error) {
	if dir == "" {
		return nil, storage.ErrInvalidInput
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &BlobStore{dir: dir}, nil
}

// Get retrieves the blob stored under key. Returns ErrNotFound if the key
// has never been written.
func (s *BlobStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read blob %q: %w", key, err)
	}
	return data, nil
}

// Put stores data under key, replacing any previous value. The write is
// atomic at the file level: temp file, fsync, rename.
func (s *BlobStore) Put(_ context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write blob %q: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync blob %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename blob %q: %w", key, err)
	}
	return nil
}

// path maps a key to its file, rejecting keys that would escape the
// data directory.
func (s *BlobStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", storage.ErrInvalidInput
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Verify interface compliance at compile time.
var _ storage.BlobStore = (*BlobStore)(nil)
