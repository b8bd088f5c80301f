package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/insurehub/insurehub/backend/go-services/pkg/metrics"
)

func observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.BlobOperations.WithLabelValues(op, outcome).Inc()
}

// MinIOStore is a thin wrapper around the minio client used by the document
// service and the maintenance jobs. A store built from an empty endpoint is
// valid but unconfigured: every mutating operation fails with
// ErrNotConfigured and List degrades to an empty result, so the rest of the
// system can run in local-storage mode.
type MinIOStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinIOStore creates a MinIO-backed store and ensures the bucket exists.
// When cfg carries no endpoint the returned store is unconfigured rather
// than an error.
func NewMinIOStore(cfg *MinIOConfig) (*MinIOStore, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return &MinIOStore{bucket: bucketOrDefault(cfg)}, nil
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	s := &MinIOStore{client: mc, bucket: cfg.Bucket, publicBase: strings.TrimRight(base, "/")}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

func bucketOrDefault(cfg *MinIOConfig) string {
	if cfg != nil && cfg.Bucket != "" {
		return cfg.Bucket
	}
	return "insurance-documents"
}

// Configured reports whether the store has a backing client.
func (s *MinIOStore) Configured() bool { return s.client != nil }

// Bucket returns the configured bucket name.
func (s *MinIOStore) Bucket() string { return s.bucket }

// Upload writes content under "{folder}/{uniqueName}{ext}" and returns the
// object URL. Existing objects at the same key are overwritten; the unique
// naming scheme makes that a safety net rather than expected behavior.
func (s *MinIOStore) Upload(ctx context.Context, content []byte, fileName string, folder string) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}
	key := joinKey(folder, uniqueBlobName(fileName))
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{})
	observe("upload", err)
	if err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	return s.URLFor(key), nil
}

// Put writes content at exactly key.
func (s *MinIOStore) Put(ctx context.Context, key string, content []byte) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}
	key = strings.TrimLeft(key, "/")
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{})
	observe("put", err)
	if err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	return s.URLFor(key), nil
}

// Download returns the stored bytes for key.
func (s *MinIOStore) Download(ctx context.Context, key string) ([]byte, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio get %s: %w", key, err)
	}
	defer obj.Close()
	// GetObject is lazy; the first read surfaces missing keys
	data, err := io.ReadAll(obj)
	observe("download", err)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("minio read %s: %w", key, err)
	}
	return data, nil
}

// Delete removes key, returning false when it was already absent.
func (s *MinIOStore) Delete(ctx context.Context, key string) (bool, error) {
	if s.client == nil {
		return false, ErrNotConfigured
	}
	key = strings.TrimLeft(key, "/")
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("minio stat %s: %w", key, err)
	}
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	observe("delete", err)
	if err != nil {
		return false, fmt.Errorf("minio remove %s: %w", key, err)
	}
	return true, nil
}

// List returns keys under the folder/prefix combination. Unconfigured stores
// report an empty listing.
func (s *MinIOStore) List(ctx context.Context, folder, prefix string) ([]string, error) {
	if s.client == nil {
		return nil, nil
	}
	var keys []string
	opts := minio.ListObjectsOptions{Prefix: listPrefix(folder, prefix), Recursive: true}
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("minio list: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// URLFor is deterministic and does not require the object to exist.
func (s *MinIOStore) URLFor(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucket, strings.TrimLeft(key, "/"))
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}
