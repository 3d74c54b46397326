package sessionstore

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore implements Store in process memory, with an optional TTL.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewMemoryStore creates a MemoryStore. ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (m *MemoryStore) Get(ctx context.Context, sid, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(sid, name)

	e, ok := m.entries[k]
	if !ok {
		return nil, ErrNotFound
	}

	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, k)
		return nil, ErrNotFound
	}

	return append([]byte(nil), e.value...), nil
}

func (m *MemoryStore) Set(ctx context.Context, sid, name string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{value: append([]byte(nil), value...)}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[key(sid, name)] = e

	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sid, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key(sid, name))

	return nil
}
