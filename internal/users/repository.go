package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	UpsertBySub(ctx context.Context, u *User) (*User, error)
	GetBySub(ctx context.Context, sub string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// PostgresUserRepository implements UserRepository on a pgx pool.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// EnsureSchema creates the users table when it does not exist yet.
func (r *PostgresUserRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id          BIGSERIAL PRIMARY KEY,
			sub         TEXT UNIQUE,
			email       TEXT NOT NULL,
			name        TEXT NOT NULL DEFAULT '',
			role        TEXT NOT NULL DEFAULT 'customer',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	return nil
}

const userColumns = `id, COALESCE(sub, ''), email, name, role, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Sub, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpsertBySub creates or refreshes the account tied to an OIDC subject,
// returning the stored row.
func (r *PostgresUserRepository) UpsertBySub(ctx context.Context, u *User) (*User, error) {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	role := u.Role
	if role == "" {
		role = RoleCustomer
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (sub, email, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (sub) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
		RETURNING `+userColumns,
		u.Sub, u.Email, u.Name, role, u.CreatedAt, now)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetBySub(ctx context.Context, sub string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE sub = $1`, sub)
	u, err := scanUser(row)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}
