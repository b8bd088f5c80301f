package lifeapp

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is the in-memory Repository used in tests and when no MongoDB
// is configured.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Application
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Application)}
}

func clone(doc Application) Application {
	cp := make(Application, len(doc))
	for k, v := range doc {
		cp[k] = v
	}
	return cp
}

func (m *MemoryRepo) Create(ctx context.Context, userID int64, payload Application) (string, error) {
	doc := stripReserved(payload)
	now := time.Now().UTC()
	id := uuid.NewString()
	doc[FieldID] = id
	doc[FieldUserID] = userID
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now
	if _, ok := doc[FieldStatus]; !ok {
		doc[FieldStatus] = StatusDraft
	}
	m.mu.Lock()
	m.docs[id] = doc
	m.mu.Unlock()
	return id, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if doc, ok := m.docs[id]; ok {
		return clone(doc), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) ListByUser(ctx context.Context, userID int64) ([]Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Application{}
	for _, doc := range m.docs {
		if uid, ok := doc[FieldUserID].(int64); ok && uid == userID {
			out = append(out, clone(doc))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, _ := out[i][FieldCreatedAt].(time.Time)
		tj, _ := out[j][FieldCreatedAt].(time.Time)
		if ti.Equal(tj) {
			si, _ := out[i][FieldID].(string)
			sj, _ := out[j][FieldID].(string)
			return si > sj
		}
		return ti.After(tj)
	})
	return out, nil
}

func (m *MemoryRepo) Patch(ctx context.Context, id string, fields Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range stripReserved(fields) {
		doc[k] = v
	}
	doc[FieldUpdatedAt] = time.Now().UTC()
	return nil
}
