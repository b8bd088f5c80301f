package maintenance

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/insurehub/insurehub/backend/go-services/internal/documents"
	"github.com/insurehub/insurehub/backend/go-services/internal/documents/repository"
	"github.com/insurehub/insurehub/backend/go-services/internal/storage"
	"github.com/insurehub/insurehub/backend/go-services/pkg/logger"
)

const defaultBatchSize = 10

// MigrateOptions scope a migration run. CreateBackup only applies to files
// moved on the local filesystem; object-store migrations always retain the
// old object instead.
type MigrateOptions struct {
	DryRun       bool
	CreateBackup bool
	UserID       *int64
	BatchSize    int
}

// Migrator relocates stored files from the legacy flat folder layout into the
// per-user nested layout and rewrites the recorded URLs. Object-store objects
// are copied to the new key and the old object is retained for manual
// verification; local files are moved, optionally after a copy into a
// timestamped backup directory. URL updates are committed in batches.
type Migrator struct {
	repo       repository.Repository
	store      storage.BlobStore
	uploadsDir string
	baseURL    string
	now        func() time.Time
}

func NewMigrator(repo repository.Repository, store storage.BlobStore, uploadsDir, baseURL string) *Migrator {
	return &Migrator{
		repo:       repo,
		store:      store,
		uploadsDir: uploadsDir,
		baseURL:    strings.TrimRight(baseURL, "/"),
		now:        time.Now,
	}
}

// Run processes every record once, sequentially. Per-record failures are
// counted under Failed and the run continues; re-running is idempotent
// because migrated records are recognized by their URL and skipped.
func (m *Migrator) Run(ctx context.Context, opts MigrateOptions) (*MigrateStats, error) {
	stats := &MigrateStats{}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	backupDir := m.uploadsDir + "_backup_" + m.now().Format("20060102_150405")

	docs, err := listRecords(ctx, m.repo, opts.UserID)
	if err != nil {
		return stats, fmt.Errorf("list documents: %w", err)
	}
	logger.Infof("migrating folder structure for %d records (dry-run=%v, backup=%v)",
		len(docs), opts.DryRun, opts.CreateBackup)

	// URL rewrites staged since the last commit
	pending := make(map[int64]string)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		if err := m.repo.UpdateURLs(ctx, pending); err != nil {
			logger.Errorf("url batch commit failed for %d records: %v", len(pending), err)
			stats.Failed += len(pending)
		} else {
			stats.Migrated += len(pending)
		}
		pending = make(map[int64]string)
	}

	for _, doc := range docs {
		// safe interruption point; staged rewrites are committed first
		if err := ctx.Err(); err != nil {
			flush()
			return stats, err
		}
		stats.Total++

		if doc.DocumentURL == "" {
			stats.SkippedNoURL++
			continue
		}
		container := ""
		if m.store != nil {
			container = m.store.Bucket()
		}
		if folder, ok := documents.ExtractFolderFromURL(doc.DocumentURL, container); ok && isNestedFolder(folder) {
			stats.AlreadyInNewStructure++
			continue
		}
		if doc.UserID == 0 || doc.DocumentType == "" {
			logger.Errorf("document %d: missing userId or documentType, cannot derive destination", doc.ID)
			stats.Failed++
			continue
		}
		fileName, ok := documents.FileNameFromURL(doc.DocumentURL)
		if !ok {
			logger.Errorf("document %d: no filename in url %q", doc.ID, doc.DocumentURL)
			stats.Failed++
			continue
		}

		// claim id is not recorded, so claim documents land in the pending
		// bucket for their user
		targetFolder := documents.DeriveFolderPath(doc.UserID, doc.DocumentType, nil)
		newKey := targetFolder + "/" + fileName

		var newURL string
		if rel, local := localRelPath(doc.DocumentURL); local {
			if opts.DryRun {
				logger.Infof("document %d: would move %s -> %s", doc.ID, rel, newKey)
				stats.Migrated++
				continue
			}
			newURL = m.baseURL + "/uploads/" + newKey
			if err := m.moveLocal(rel, newKey, opts.CreateBackup, backupDir); err != nil {
				logger.Errorf("document %d: local move failed: %v", doc.ID, err)
				stats.Failed++
				continue
			}
		} else {
			if opts.DryRun {
				logger.Infof("document %d: would copy blob to %s", doc.ID, newKey)
				stats.Migrated++
				continue
			}
			var err error
			newURL, err = m.copyBlob(ctx, doc.DocumentURL, newKey)
			if err != nil {
				logger.Errorf("document %d: blob copy failed: %v", doc.ID, err)
				stats.Failed++
				continue
			}
		}

		logger.Infof("document %d: migrated to %s", doc.ID, newKey)
		pending[doc.ID] = newURL
		if len(pending) >= batchSize {
			flush()
		}
	}
	flush()

	stats.LogSummary(opts.DryRun)
	return stats, nil
}

// isNestedFolder reports whether an extracted folder already follows the
// per-user nested convention; legacy flat folders like "kyc" do not.
func isNestedFolder(folder string) bool {
	return strings.HasPrefix(folder, "users/") || strings.HasPrefix(folder, "claims/")
}

// localRelPath returns the path relative to the uploads root for URLs served
// from local storage, identified by their /uploads/ marker segment.
func localRelPath(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, seg := range segments {
		if seg == "uploads" && i+1 < len(segments) {
			return strings.Join(segments[i+1:], "/"), true
		}
	}
	return "", false
}

// moveLocal relocates one file under the uploads root, creating parent
// directories and, when requested, a backup copy first.
func (m *Migrator) moveLocal(rel, newKey string, backup bool, backupDir string) error {
	oldPath := filepath.Join(m.uploadsDir, filepath.FromSlash(rel))
	if _, err := os.Stat(oldPath); err != nil {
		return fmt.Errorf("source file: %w", err)
	}
	if backup {
		dst := filepath.Join(backupDir, filepath.FromSlash(rel))
		if err := copyFile(oldPath, dst); err != nil {
			return fmt.Errorf("backup copy: %w", err)
		}
	}
	newPath := filepath.Join(m.uploadsDir, filepath.FromSlash(newKey))
	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(newPath), err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("move %s -> %s: %w", oldPath, newPath, err)
	}
	return nil
}

// copyBlob downloads the object an old URL points at and writes it under the
// new key. The old object is kept so operators can verify the migration
// before cleaning up.
func (m *Migrator) copyBlob(ctx context.Context, oldURL, newKey string) (string, error) {
	if m.store == nil {
		return "", storage.ErrNotConfigured
	}
	oldKey, ok := documents.BlobKeyFromURL(oldURL, m.store.Bucket())
	if !ok {
		return "", fmt.Errorf("cannot derive blob key from %q", oldURL)
	}
	data, err := m.store.Download(ctx, oldKey)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", oldKey, err)
	}
	newURL, err := m.store.Put(ctx, newKey, data)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", newKey, err)
	}
	return newURL, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
