package maintenance

import (
	"context"
	"fmt"

	"github.com/insurehub/insurehub/backend/go-services/internal/documents"
	"github.com/insurehub/insurehub/backend/go-services/internal/documents/repository"
	"github.com/insurehub/insurehub/backend/go-services/pkg/logger"
)

// BackfillOptions scope a backfill run. Container is the bucket/container
// name embedded in object-store URLs; it is needed to recognize them.
type BackfillOptions struct {
	DryRun    bool
	UserID    *int64
	Container string
}

// BackfillDocumentTypes recomputes documentType from the stored URL for every
// record whose recorded type disagrees, in one sequential pass. A persistence
// failure on one record is counted and the run continues; the returned error
// is non-nil only for fatal conditions (listing failure, cancellation).
// Running it twice in a row yields zero additional updates on the second run.
func BackfillDocumentTypes(ctx context.Context, repo repository.Repository, opts BackfillOptions) (*BackfillStats, error) {
	stats := &BackfillStats{}

	docs, err := listRecords(ctx, repo, opts.UserID)
	if err != nil {
		return stats, fmt.Errorf("list documents: %w", err)
	}
	logger.Infof("backfilling document types for %d records (dry-run=%v)", len(docs), opts.DryRun)

	for _, doc := range docs {
		// safe interruption point between records
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Total++

		if doc.DocumentURL == "" {
			stats.SkippedNoURL++
			continue
		}
		newType, ok := documents.TypeFromURL(doc.DocumentURL, opts.Container)
		if !ok {
			logger.Debugf("document %d: cannot determine type from %q", doc.ID, doc.DocumentURL)
			stats.SkippedCannotDetermine++
			continue
		}
		if newType == doc.DocumentType {
			stats.AlreadyCorrect++
			continue
		}

		if opts.DryRun {
			logger.Infof("document %d: would update type %q -> %q", doc.ID, doc.DocumentType, newType)
			stats.Updated++
			continue
		}
		if err := repo.UpdateType(ctx, doc.ID, newType); err != nil {
			logger.Errorf("document %d: type update failed: %v", doc.ID, err)
			stats.Errors++
			continue
		}
		logger.Infof("document %d: updated type %q -> %q", doc.ID, doc.DocumentType, newType)
		stats.Updated++
	}

	stats.LogSummary(opts.DryRun)
	return stats, nil
}

func listRecords(ctx context.Context, repo repository.Repository, userID *int64) ([]*documents.Document, error) {
	if userID != nil {
		return repo.ListByUser(ctx, *userID)
	}
	return repo.List(ctx)
}
