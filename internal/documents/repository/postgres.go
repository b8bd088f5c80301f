package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/insurehub/insurehub/backend/go-services/internal/documents"
)

// PostgresRepo implements Repository on a pgx connection pool.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

// EnsureSchema creates the documents table if needed. Keeping the bootstrap
// in code lets docker-compose bring up a working stack without a separate
// migration step.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS documents (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	policy_id BIGINT,
	document_type TEXT,
	document_url TEXT,
	upload_date DATE NOT NULL,
	file_size BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_documents_user_id ON documents(user_id);
CREATE INDEX IF NOT EXISTS idx_documents_policy_id ON documents(policy_id);`
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("ensure documents schema: %w", err)
	}
	return nil
}

const docColumns = `id, user_id, COALESCE(policy_id, 0), COALESCE(document_type, ''), COALESCE(document_url, ''), upload_date, file_size`

func (r *PostgresRepo) Create(ctx context.Context, doc *documents.Document) (int64, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO documents (user_id, policy_id, document_type, document_url, upload_date, file_size)
		VALUES ($1, NULLIF($2, 0), $3, $4, $5, $6)
		RETURNING id
	`, doc.UserID, doc.PolicyID, doc.DocumentType, doc.DocumentURL, doc.UploadDate, doc.FileSize)
	if err := row.Scan(&doc.ID); err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	return doc.ID, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (*documents.Document, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+docColumns+` FROM documents WHERE id = $1`, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select document %d: %w", id, err)
	}
	return doc, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]*documents.Document, error) {
	return r.query(ctx, `SELECT `+docColumns+` FROM documents ORDER BY id`)
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID int64) ([]*documents.Document, error) {
	return r.query(ctx, `SELECT `+docColumns+` FROM documents WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *PostgresRepo) ListByPolicy(ctx context.Context, policyID int64) ([]*documents.Document, error) {
	return r.query(ctx, `SELECT `+docColumns+` FROM documents WHERE policy_id = $1 ORDER BY id`, policyID)
}

func (r *PostgresRepo) UpdateType(ctx context.Context, id int64, documentType string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE documents SET document_type = $1 WHERE id = $2`, documentType, id)
	if err != nil {
		return fmt.Errorf("update document type %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) UpdateURL(ctx context.Context, id int64, documentURL string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE documents SET document_url = $1 WHERE id = $2`, documentURL, id)
	if err != nil {
		return fmt.Errorf("update document url %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) UpdateURLs(ctx context.Context, urls map[int64]string) error {
	if len(urls) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin url batch: %w", err)
	}
	defer tx.Rollback(ctx)
	for id, u := range urls {
		if _, err := tx.Exec(ctx, `UPDATE documents SET document_url = $1 WHERE id = $2`, u, id); err != nil {
			return fmt.Errorf("batch update document %d: %w", id, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit url batch: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) query(ctx context.Context, sql string, args ...any) ([]*documents.Document, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	defer rows.Close()
	out := []*documents.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func scanDocument(row pgx.Row) (*documents.Document, error) {
	var d documents.Document
	if err := row.Scan(&d.ID, &d.UserID, &d.PolicyID, &d.DocumentType, &d.DocumentURL, &d.UploadDate, &d.FileSize); err != nil {
		return nil, err
	}
	return &d, nil
}
