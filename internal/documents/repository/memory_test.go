package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurehub/insurehub/backend/go-services/internal/documents"
)

func TestMemoryRepoCRUD(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	id, err := repo.Create(ctx, &documents.Document{
		UserID:       6,
		PolicyID:     2,
		DocumentType: documents.TypeKYC,
		DocumentURL:  "http://localhost:8000/uploads/users/6/kyc/a.pdf",
		UploadDate:   time.Now(),
		FileSize:     10,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, documents.TypeKYC, got.DocumentType)

	require.NoError(t, repo.UpdateType(ctx, id, documents.TypeIDCard))
	require.NoError(t, repo.UpdateURL(ctx, id, "http://localhost:8000/uploads/users/6/id_cards/a.pdf"))
	got, _ = repo.GetByID(ctx, id)
	assert.Equal(t, documents.TypeIDCard, got.DocumentType)
	assert.Contains(t, got.DocumentURL, "id_cards")

	byUser, err := repo.ListByUser(ctx, 6)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)
	byPolicy, err := repo.ListByPolicy(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, byPolicy, 1)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, id), ErrNotFound)
}

func TestMemoryRepoUpdateURLsBatch(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := repo.Create(ctx, &documents.Document{UserID: 1, DocumentType: documents.TypeOther, UploadDate: time.Now()})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	batch := map[int64]string{
		ids[0]: "http://localhost:8000/uploads/users/1/other/a.pdf",
		ids[1]: "http://localhost:8000/uploads/users/1/other/b.pdf",
	}
	require.NoError(t, repo.UpdateURLs(ctx, batch))
	for id, want := range batch {
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.DocumentURL)
	}
}
