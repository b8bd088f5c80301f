package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	s := NewLocalStore(t.TempDir(), "http://localhost:8000")
	ctx := context.Background()

	url, err := s.Upload(ctx, []byte("policy pdf bytes"), "scan.pdf", "users/123/kyc")
	require.NoError(t, err)
	assert.Contains(t, url, "/uploads/users/123/kyc/")
	assert.True(t, strings.HasSuffix(url, ".pdf"), "original extension preserved: %s", url)

	keys, err := s.List(ctx, "users/123/kyc", "")
	require.NoError(t, err)
	require.Len(t, keys, 1)

	data, err := s.Download(ctx, keys[0])
	require.NoError(t, err)
	assert.Equal(t, "policy pdf bytes", string(data))

	ok, err := s.Delete(ctx, keys[0])
	require.NoError(t, err)
	assert.True(t, ok)

	// second delete: already gone, not an error
	ok, err = s.Delete(ctx, keys[0])
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Download(ctx, keys[0])
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalStoreListEmptyRoot(t *testing.T) {
	s := NewLocalStore(t.TempDir()+"/missing", "http://localhost:8000")
	keys, err := s.List(context.Background(), "users/1/kyc", "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemoryStoreBehavesLikeBlobStore(t *testing.T) {
	s := NewMemoryStore("insurance-documents")
	ctx := context.Background()

	url, err := s.Upload(ctx, []byte("x"), "id.png", "users/9/id_cards")
	require.NoError(t, err)
	assert.Contains(t, url, "/insurance-documents/users/9/id_cards/")

	keys, err := s.List(ctx, "users/9/id_cards", "")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, url, s.URLFor(keys[0]))

	ok, err := s.Delete(ctx, keys[0])
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, s.Len())
}

func TestUnconfiguredMinIOStoreDegrades(t *testing.T) {
	s, err := NewMinIOStore(&MinIOConfig{})
	require.NoError(t, err, "missing endpoint must not be a constructor error")
	require.False(t, s.Configured())
	ctx := context.Background()

	_, err = s.Upload(ctx, []byte("x"), "a.pdf", "users/1/kyc")
	assert.True(t, errors.Is(err, ErrNotConfigured))
	_, err = s.Download(ctx, "users/1/kyc/a.pdf")
	assert.True(t, errors.Is(err, ErrNotConfigured))
	_, err = s.Delete(ctx, "users/1/kyc/a.pdf")
	assert.True(t, errors.Is(err, ErrNotConfigured))

	keys, err := s.List(ctx, "users/1/kyc", "")
	require.NoError(t, err)
	assert.Empty(t, keys, "unconfigured listing degrades to empty")

	assert.Equal(t, "insurance-documents", s.Bucket())
}

func TestListPrefixCombinations(t *testing.T) {
	assert.Equal(t, "users/1/kyc/", listPrefix("users/1/kyc", ""))
	assert.Equal(t, "users/1/kyc/ab", listPrefix("/users/1/kyc/", "ab"))
	assert.Equal(t, "ab", listPrefix("", "ab"))
	assert.Equal(t, "", listPrefix("", ""))
}
