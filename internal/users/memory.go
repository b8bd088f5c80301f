package users

import (
	"context"
	"sync"
	"time"
)

// MemoryUserRepository backs the user service in tests and in the
// no-database demo mode.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{nextID: 1, byID: make(map[int64]*User)}
}

func (m *MemoryUserRepository) UpsertBySub(ctx context.Context, u *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for _, existing := range m.byID {
		if existing.Sub == u.Sub {
			existing.Email = u.Email
			existing.Name = u.Name
			existing.UpdatedAt = now
			cp := *existing
			return &cp, nil
		}
	}
	cp := *u
	cp.ID = m.nextID
	m.nextID++
	if cp.Role == "" {
		cp.Role = RoleCustomer
	}
	cp.CreatedAt = now
	cp.UpdatedAt = now
	m.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *MemoryUserRepository) GetBySub(ctx context.Context, sub string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.byID {
		if u.Sub == sub {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryUserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}
