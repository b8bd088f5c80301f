package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurehub/insurehub/backend/go-services/internal/documents"
	"github.com/insurehub/insurehub/backend/go-services/internal/documents/repository"
	"github.com/insurehub/insurehub/backend/go-services/internal/storage"
)

func newTestService() (*Service, *repository.MemoryRepo, *storage.MemoryStore) {
	repo := repository.NewMemoryRepo()
	store := storage.NewMemoryStore("insurance-documents")
	return New(repo, store), repo, store
}

func TestUploadClaimDocumentEndToEnd(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()
	claimID := int64(789)

	res, err := svc.Upload(ctx, UploadInput{
		UserID:       123,
		PolicyID:     4,
		DocumentType: documents.TypeClaim,
		ClaimID:      &claimID,
		FileName:     "accident-report.pdf",
		Content:      []byte("report bytes"),
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotZero(t, res.DocumentID)
	assert.Equal(t, "accident-report.pdf", res.FileName)
	assert.Equal(t, int64(len("report bytes")), res.FileSize)
	assert.Contains(t, res.FileURL, "claims/789/")

	// the stored key lives under the claim folder
	keys, err := store.List(ctx, "claims/789", "")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.True(t, strings.HasSuffix(keys[0], ".pdf"))

	// and the stored URL extracts back to the claim folder
	folder, ok := documents.ExtractFolderFromURL(res.FileURL, store.Bucket())
	require.True(t, ok)
	assert.Equal(t, "claims/789", folder)
}

func TestUploadPendingClaimWithoutClaimID(t *testing.T) {
	svc, _, _ := newTestService()
	res, err := svc.Upload(context.Background(), UploadInput{
		UserID:       55,
		DocumentType: documents.TypeClaim,
		FileName:     "fir.pdf",
		Content:      []byte("x"),
	})
	require.NoError(t, err)
	assert.Contains(t, res.FileURL, "claims/pending/55/")
}

func TestUploadFailsWhenStoreUnconfigured(t *testing.T) {
	repo := repository.NewMemoryRepo()
	unconfigured, err := storage.NewMinIOStore(&storage.MinIOConfig{})
	require.NoError(t, err)
	svc := New(repo, unconfigured)

	_, err = svc.Upload(context.Background(), UploadInput{
		UserID:       1,
		DocumentType: documents.TypeKYC,
		FileName:     "a.pdf",
		Content:      []byte("x"),
	})
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
	// nothing recorded
	all, _ := repo.List(context.Background())
	assert.Empty(t, all)
}

type knownUsers map[int64]bool

func (k knownUsers) Exists(_ context.Context, id int64) (bool, error) { return k[id], nil }

func TestUploadRejectsUnknownUser(t *testing.T) {
	svc, repo, store := newTestService()
	svc.WithUserCheck(knownUsers{7: true})
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadInput{
		UserID:       8,
		DocumentType: documents.TypeKYC,
		FileName:     "a.pdf",
		Content:      []byte("x"),
	})
	assert.ErrorIs(t, err, ErrUnknownUser)
	all, _ := repo.List(ctx)
	assert.Empty(t, all)
	assert.Zero(t, store.Len(), "nothing stored for a rejected upload")

	_, err = svc.Upload(ctx, UploadInput{
		UserID:       7,
		DocumentType: documents.TypeKYC,
		FileName:     "a.pdf",
		Content:      []byte("x"),
	})
	assert.NoError(t, err)
}

func TestDeleteRemovesRowAndBlob(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()

	res, err := svc.Upload(ctx, UploadInput{
		UserID:       9,
		DocumentType: documents.TypeKYC,
		FileName:     "kyc.png",
		Content:      []byte("img"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, res.DocumentID))
	_, err = repo.GetByID(ctx, res.DocumentID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Zero(t, store.Len(), "backing blob removed")
}

func TestDeleteSucceedsWhenBlobAlreadyGone(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()

	res, err := svc.Upload(ctx, UploadInput{
		UserID:       9,
		DocumentType: documents.TypeKYC,
		FileName:     "kyc.png",
		Content:      []byte("img"),
	})
	require.NoError(t, err)

	// simulate an out-of-band blob cleanup
	keys, _ := store.List(ctx, "users/9/kyc", "")
	require.Len(t, keys, 1)
	_, err = store.Delete(ctx, keys[0])
	require.NoError(t, err)

	// record removal still succeeds
	require.NoError(t, svc.Delete(ctx, res.DocumentID))
	_, err = svc.Get(ctx, res.DocumentID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissingRecord(t *testing.T) {
	svc, _, _ := newTestService()
	assert.ErrorIs(t, svc.Delete(context.Background(), 404), ErrNotFound)
}

func TestCreateRecordDefaultsUploadDate(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	id, err := svc.CreateRecord(ctx, &documents.Document{
		UserID:       3,
		DocumentType: documents.TypePolicy,
		DocumentURL:  "http://localhost:8000/uploads/users/3/policies/p.pdf",
	})
	require.NoError(t, err)
	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.UploadDate.IsZero())
}
