package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore persists uploads under a directory on the local filesystem.
// It is the fallback when no object-store credentials are configured and
// serves files through the API under /uploads/. Keys map 1:1 to relative
// file paths.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore roots the store at dir; URLs are "{baseURL}/uploads/{key}".
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{root: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Root returns the directory files are stored under.
func (s *LocalStore) Root() string { return s.root }

// Bucket returns the virtual container name for URL parsing purposes.
func (s *LocalStore) Bucket() string { return "uploads" }

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimLeft(key, "/")))
}

func (s *LocalStore) Upload(ctx context.Context, content []byte, fileName string, folder string) (string, error) {
	key := joinKey(folder, uniqueBlobName(fileName))
	dst := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return s.URLFor(key), nil
}

func (s *LocalStore) Put(ctx context.Context, key string, content []byte) (string, error) {
	key = strings.TrimLeft(key, "/")
	dst := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return s.URLFor(key), nil
}

func (s *LocalStore) Download(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) (bool, error) {
	err := os.Remove(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("remove %s: %w", key, err)
	}
	return true, nil
}

func (s *LocalStore) List(ctx context.Context, folder, prefix string) ([]string, error) {
	want := listPrefix(folder, prefix)
	var keys []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(s.root, p)
		if rerr != nil {
			return rerr
		}
		key := filepath.ToSlash(rel)
		if want == "" || strings.HasPrefix(key, want) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}
	return keys, nil
}

func (s *LocalStore) URLFor(key string) string {
	return fmt.Sprintf("%s/uploads/%s", s.baseURL, strings.TrimLeft(key, "/"))
}
