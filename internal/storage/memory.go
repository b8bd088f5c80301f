package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory BlobStore used by unit tests. URLs follow the
// same "{base}/{bucket}/{key}" shape as the MinIO store so folder extraction
// from stored URLs behaves identically.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	bucket  string
	base    string
}

func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		bucket:  bucket,
		base:    "https://storage.example.com",
	}
}

func (s *MemoryStore) Bucket() string { return s.bucket }

func (s *MemoryStore) Upload(ctx context.Context, content []byte, fileName string, folder string) (string, error) {
	key := joinKey(folder, uniqueBlobName(fileName))
	s.mu.Lock()
	s.objects[key] = append([]byte(nil), content...)
	s.mu.Unlock()
	return s.URLFor(key), nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, content []byte) (string, error) {
	key = strings.TrimLeft(key, "/")
	s.mu.Lock()
	s.objects[key] = append([]byte(nil), content...)
	s.mu.Unlock()
	return s.URLFor(key), nil
}

func (s *MemoryStore) Download(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[strings.TrimLeft(key, "/")]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) (bool, error) {
	key = strings.TrimLeft(key, "/")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return false, nil
	}
	delete(s.objects, key)
	return true, nil
}

func (s *MemoryStore) List(ctx context.Context, folder, prefix string) ([]string, error) {
	want := listPrefix(folder, prefix)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.objects {
		if want == "" || strings.HasPrefix(k, want) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) URLFor(key string) string {
	return s.base + "/" + s.bucket + "/" + strings.TrimLeft(key, "/")
}

// Len reports the number of stored objects (test helper).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
