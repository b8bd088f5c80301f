package repository

import (
	"context"
	"errors"

	"github.com/insurehub/insurehub/backend/go-services/internal/documents"
)

var (
	ErrNotFound = errors.New("document not found")
)

// Repository is the persistence surface the document service and the
// maintenance jobs depend on. Beyond by-id access it offers the two partial
// updates the repair jobs need and a batched URL update so the folder
// migrator can commit every N records in one transaction.
type Repository interface {
	Create(ctx context.Context, doc *documents.Document) (int64, error)
	GetByID(ctx context.Context, id int64) (*documents.Document, error)
	List(ctx context.Context) ([]*documents.Document, error)
	ListByUser(ctx context.Context, userID int64) ([]*documents.Document, error)
	ListByPolicy(ctx context.Context, policyID int64) ([]*documents.Document, error)
	UpdateType(ctx context.Context, id int64, documentType string) error
	UpdateURL(ctx context.Context, id int64, documentURL string) error
	// UpdateURLs applies all URL changes in a single transaction.
	UpdateURLs(ctx context.Context, urls map[int64]string) error
	Delete(ctx context.Context, id int64) error
}
