package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotConfigured is returned by mutating operations when no backing
	// store credentials were supplied at startup.
	ErrNotConfigured = errors.New("blob store is not configured")
	// ErrNotFound is returned when the requested key does not exist.
	ErrNotFound = errors.New("blob not found")
)

// BlobStore abstracts the object store holding uploaded document bytes.
// Keys are flat strings; '/' separators form virtual folders. All operations
// act on a single configured bucket.
type BlobStore interface {
	// Upload stores content under a freshly minted unique name inside folder
	// (or at the bucket root when folder is empty) and returns the public URL.
	Upload(ctx context.Context, content []byte, fileName string, folder string) (string, error)
	// Put stores content at exactly key, overwriting any existing object, and
	// returns the public URL. The migration jobs use it to keep filenames
	// stable while relocating objects.
	Put(ctx context.Context, key string, content []byte) (string, error)
	// Download returns the stored bytes for key, ErrNotFound when absent.
	Download(ctx context.Context, key string) ([]byte, error)
	// Delete removes key. Returns false (and no error) when the key was
	// already absent.
	Delete(ctx context.Context, key string) (bool, error)
	// List returns keys under folder starting with prefix. An unconfigured
	// store returns an empty list, never an error.
	List(ctx context.Context, folder, prefix string) ([]string, error)
	// URLFor returns the public URL for key without checking existence.
	URLFor(key string) string
	// Bucket returns the configured bucket/container name.
	Bucket() string
}

// uniqueBlobName mints a fresh object name preserving the original file
// extension. The random name decouples the key from client-supplied
// filenames (collision and path-injection safety).
func uniqueBlobName(fileName string) string {
	ext := filepath.Ext(fileName)
	return uuid.NewString() + ext
}

// joinKey builds "{folder}/{name}" with folder slashes normalized; a bare
// name when folder is empty.
func joinKey(folder, name string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// listPrefix reproduces the folder/prefix combination rules used for
// listings: both set -> "folder/prefix", folder only -> "folder/",
// prefix only -> "prefix".
func listPrefix(folder, prefix string) string {
	folder = strings.Trim(folder, "/")
	switch {
	case folder != "" && prefix != "":
		return folder + "/" + prefix
	case folder != "":
		return folder + "/"
	default:
		return prefix
	}
}
