package profile

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory profile store for demo/development mode.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewMemoryStore creates a new in-memory profile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*Profile)}
}

func (m *MemoryStore) Get(ctx context.Context, userID string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if p, ok := m.profiles[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return &Profile{UserID: userID}, nil
}

func (m *MemoryStore) Update(ctx context.Context, userID string, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok {
		p = &Profile{UserID: userID}
		m.profiles[userID] = p
	}
	p.Observe(amount)
	return nil
}

// Len returns the number of distinct users seen.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles)
}
