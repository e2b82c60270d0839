package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// BlobStore is the binary payload boundary for project photos, punch list
// photos and map snapshots. The data context only ever records the keys.
type BlobStore interface {
	Put(ctx context.Context, key string, payload []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
}

// DiskBlobStore stores blobs as files under a root directory, one file per
// key. A byte quota, when set, turns writes that would exceed it into
// QuotaExceededError so the caller can tell "storage full" from a plain
// write failure.
type DiskBlobStore struct {
	mu    sync.Mutex
	root  string
	quota int64
	used  int64
}

func NewDiskBlobStore(root string, quota int64) (*DiskBlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	s := &DiskBlobStore{root: root, quota: quota}
	used, err := dirSize(root)
	if err != nil {
		return nil, err
	}
	s.used = used
	return s, nil
}

func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.Walk(root, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// path maps a key like "photos/3/1-abc" onto the disk layout. Keys are
// sanitized against traversal.
func (s *DiskBlobStore) path(key string) string {
	clean := filepath.Clean("/" + strings.ReplaceAll(key, "..", ""))
	return filepath.Join(s.root, clean)
}

func (s *DiskBlobStore) Put(ctx context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quota > 0 && s.used+int64(len(payload)) > s.quota {
		return &QuotaExceededError{Key: key, Size: int64(len(payload))}
	}
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(p, payload, 0o644); err != nil {
		return err
	}
	s.used += int64(len(payload))
	return nil
}

func (s *DiskBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *DiskBlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.path(key)
	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return err
	}
	s.used -= info.Size()
	return nil
}

// MemoryBlobStore is a map-backed BlobStore for tests. FailOn arms an error
// for keys containing a substring, to exercise the all-or-nothing photo
// commit.
type MemoryBlobStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	failSub string
	failErr error
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

// FailOn makes every Put whose key contains sub fail with err.
func (s *MemoryBlobStore) FailOn(sub string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSub = sub
	s.failErr = err
}

// Len returns the number of stored blobs.
func (s *MemoryBlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

func (s *MemoryBlobStore) Put(ctx context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSub != "" && strings.Contains(key, s.failSub) {
		return s.failErr
	}
	s.blobs[key] = append([]byte(nil), payload...)
	return nil
}

func (s *MemoryBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (s *MemoryBlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}
