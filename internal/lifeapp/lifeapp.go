package lifeapp

import (
	"context"
	"errors"
)

// Application is a life-insurance application record. The shape is
// intentionally open: the frontend wizard evolves its own fields and the
// backend only reserves a handful of keys.
type Application = map[string]any

// Reserved keys managed by the repository, not the client.
const (
	FieldID        = "_id"
	FieldUserID    = "user_id"
	FieldStatus    = "status"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

const StatusDraft = "draft"

var ErrNotFound = errors.New("application not found")

// Repository stores life-insurance applications.
type Repository interface {
	// Create stores payload for the user and returns the minted id. Reserved
	// keys in payload are overwritten.
	Create(ctx context.Context, userID int64, payload Application) (string, error)
	Get(ctx context.Context, id string) (Application, error)
	// ListByUser returns the user's applications, newest first.
	ListByUser(ctx context.Context, userID int64) ([]Application, error)
	// Patch merges fields into the record; reserved keys are ignored.
	Patch(ctx context.Context, id string, fields Application) error
}

// stripReserved drops keys the repository manages itself.
func stripReserved(fields Application) Application {
	out := make(Application, len(fields))
	for k, v := range fields {
		switch k {
		case FieldID, FieldUserID, FieldCreatedAt, FieldUpdatedAt:
			continue
		}
		out[k] = v
	}
	return out
}
