package record

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory record store for demo/development mode.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryStore creates a new in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Append(ctx context.Context, r *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.records = append(m.records, &cp)
	return nil
}

func (m *MemoryStore) QueryRecent(ctx context.Context, limit int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	var out []*Record
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *m.records[i]
		out = append(out, &cp)
	}
	return out, nil
}
