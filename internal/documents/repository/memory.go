package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/insurehub/insurehub/backend/go-services/internal/documents"
)

// MemoryRepo is a simple in-memory Repository used by unit tests and the
// degraded no-database mode of the demo server.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]*documents.Document

	// FailUpdateFor makes UpdateType/UpdateURL fail for the given ids,
	// letting tests exercise the per-record error handling of the batch jobs.
	FailUpdateFor map[int64]error
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, store: make(map[int64]*documents.Document)}
}

func (m *MemoryRepo) Create(ctx context.Context, doc *documents.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.ID == 0 {
		doc.ID = m.nextID
		m.nextID++
	} else if doc.ID >= m.nextID {
		m.nextID = doc.ID + 1
	}
	cp := *doc
	m.store[doc.ID] = &cp
	return doc.ID, nil
}

func (m *MemoryRepo) GetByID(ctx context.Context, id int64) (*documents.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.store[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(ctx context.Context) ([]*documents.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*documents.Document, 0, len(m.store))
	for _, d := range m.store {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepo) ListByUser(ctx context.Context, userID int64) ([]*documents.Document, error) {
	all, _ := m.List(ctx)
	out := []*documents.Document{}
	for _, d := range all {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MemoryRepo) ListByPolicy(ctx context.Context, policyID int64) ([]*documents.Document, error) {
	all, _ := m.List(ctx)
	out := []*documents.Document{}
	for _, d := range all {
		if d.PolicyID == policyID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MemoryRepo) UpdateType(ctx context.Context, id int64, documentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailUpdateFor[id]; err != nil {
		return err
	}
	d, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	d.DocumentType = documentType
	return nil
}

func (m *MemoryRepo) UpdateURL(ctx context.Context, id int64, documentURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailUpdateFor[id]; err != nil {
		return err
	}
	d, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	d.DocumentURL = documentURL
	return nil
}

func (m *MemoryRepo) UpdateURLs(ctx context.Context, urls map[int64]string) error {
	for id, u := range urls {
		if err := m.UpdateURL(ctx, id, u); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
