package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/insurehub/insurehub/backend/go-services/internal/documents"
	"github.com/insurehub/insurehub/backend/go-services/internal/documents/repository"
	"github.com/insurehub/insurehub/backend/go-services/internal/storage"
	"github.com/insurehub/insurehub/backend/go-services/pkg/logger"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrUnknownUser = errors.New("unknown user")
)

// UserChecker answers whether an uploading user id is on record. Optional;
// without one the service accepts uploads for any id.
type UserChecker interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

// UploadInput carries one multipart upload. ClaimID is used only for folder
// derivation of claim documents; nil means "claim not yet assigned" and the
// file lands under claims/pending/{userID}.
type UploadInput struct {
	UserID       int64
	PolicyID     int64
	DocumentType string
	ClaimID      *int64
	FileName     string
	Content      []byte
}

// UploadResult mirrors the wire shape the frontend expects.
type UploadResult struct {
	Success      bool   `json:"success"`
	DocumentID   int64  `json:"documentId"`
	FileName     string `json:"fileName"`
	FileURL      string `json:"fileUrl"`
	FileSize     int64  `json:"fileSize"`
	DocumentType string `json:"documentType"`
	Message      string `json:"message"`
}

// Service owns the document upload/delete flows: folder derivation, blob
// persistence and the relational record. The blob store is injected so tests
// can substitute an in-memory store.
type Service struct {
	repo      repository.Repository
	store     storage.BlobStore
	userCheck UserChecker
}

func New(repo repository.Repository, store storage.BlobStore) *Service {
	return &Service{repo: repo, store: store}
}

// WithUserCheck makes Upload reject ids with no matching user account.
func (s *Service) WithUserCheck(chk UserChecker) *Service {
	s.userCheck = chk
	return s
}

// Upload stores the file bytes under the canonical folder for its type and
// records the resulting URL. Storage configuration errors are hard failures;
// a half-failed upload (stored bytes, failed insert) leaves the orphan blob
// behind rather than attempting a rollback delete.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if s.userCheck != nil {
		known, err := s.userCheck.Exists(ctx, in.UserID)
		if err != nil {
			return nil, fmt.Errorf("user lookup: %w", err)
		}
		if !known {
			return nil, fmt.Errorf("%w: %d", ErrUnknownUser, in.UserID)
		}
	}

	folder := documents.DeriveFolderPath(in.UserID, in.DocumentType, in.ClaimID)

	url, err := s.store.Upload(ctx, in.Content, in.FileName, folder)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	doc := &documents.Document{
		UserID:       in.UserID,
		PolicyID:     in.PolicyID,
		DocumentType: in.DocumentType,
		DocumentURL:  url,
		UploadDate:   time.Now(),
		FileSize:     int64(len(in.Content)),
	}
	id, err := s.repo.Create(ctx, doc)
	if err != nil {
		logger.Errorf("document record insert failed, orphan blob at %s: %v", url, err)
		return nil, fmt.Errorf("create document record: %w", err)
	}

	return &UploadResult{
		Success:      true,
		DocumentID:   id,
		FileName:     in.FileName,
		FileURL:      url,
		FileSize:     doc.FileSize,
		DocumentType: in.DocumentType,
		Message:      "Document uploaded successfully",
	}, nil
}

// CreateRecord persists a record for a file that was already uploaded out of
// band.
func (s *Service) CreateRecord(ctx context.Context, doc *documents.Document) (int64, error) {
	if doc.UploadDate.IsZero() {
		doc.UploadDate = time.Now()
	}
	return s.repo.Create(ctx, doc)
}

func (s *Service) Get(ctx context.Context, id int64) (*documents.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *Service) List(ctx context.Context) ([]*documents.Document, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*documents.Document, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListByPolicy(ctx context.Context, policyID int64) ([]*documents.Document, error) {
	return s.repo.ListByPolicy(ctx, policyID)
}

// Delete removes the database row and, best effort, the backing blob. The
// two deletions are not transactional: a blob that is already gone counts as
// nothing to do and the row removal still succeeds, while a store failure
// aborts before the row is touched so the pointer is never dangling.
func (s *Service) Delete(ctx context.Context, id int64) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if key, ok := documents.BlobKeyFromURL(doc.DocumentURL, s.store.Bucket()); ok {
		removed, err := s.store.Delete(ctx, key)
		if err != nil {
			return fmt.Errorf("delete blob %s: %w", key, err)
		}
		if !removed {
			logger.Warnf("blob %s already absent while deleting document %d", key, id)
		}
	} else if doc.DocumentURL != "" {
		logger.Warnf("cannot derive blob key from url %q for document %d; removing record only", doc.DocumentURL, id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
