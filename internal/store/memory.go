package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"tailor/internal/session"
)

// MemoryStore keeps sessions in process memory. Expiry is enforced lazily on
// access; there is no background sweeper. Sessions are stored as encoded
// blobs so callers never alias the stored state.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Put(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putLocked(s)
}

func (m *MemoryStore) putLocked(s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.items[s.ID] = memoryEntry{data: data, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(id)
}

func (m *MemoryStore) getLocked(id string) (*session.Session, error) {
	entry, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.now().After(entry.expiresAt) {
		delete(m.items, id)
		return nil, ErrNotFound
	}
	var s session.Session
	if err := json.Unmarshal(entry.data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, mutate func(*session.Session) error) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.getLocked(id)
	if err != nil {
		return nil, err
	}
	if err := mutate(s); err != nil {
		return nil, err
	}
	s.Version++
	if err := m.putLocked(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.getLocked(id); err != nil {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *MemoryStore) Close() error { return nil }
