package store

import (
	"context"
	"sync"
	"time"

	"tixmojo-server/internal/models"
)

type memoryEntry struct {
	mu      sync.Mutex
	session *models.PaymentSession
}

// MemoryStore keeps sessions in a process-local map. Each entry carries its
// own mutex so Update serializes per session rather than across the store.
// Lock order is always map mutex before entry mutex, never both held while
// acquiring the other in reverse.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		now:      time.Now,
	}
}

func (m *MemoryStore) Put(ctx context.Context, session *models.PaymentSession) error {
	copied := *session
	m.mu.Lock()
	m.sessions[session.SessionID] = &memoryEntry{session: &copied}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) entry(sessionID string) (*memoryEntry, bool) {
	m.mu.RLock()
	entry, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	return entry, ok
}

// reclaim removes an expired entry, but only if the map still holds that
// exact entry; a concurrent Put under the same id wins.
func (m *MemoryStore) reclaim(sessionID string, entry *memoryEntry) {
	m.mu.Lock()
	if current, ok := m.sessions[sessionID]; ok && current == entry {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()
}

func (m *MemoryStore) Get(ctx context.Context, sessionID string) (*models.PaymentSession, error) {
	entry, ok := m.entry(sessionID)
	if !ok {
		return nil, ErrNotFound
	}

	entry.mu.Lock()
	if entry.session.Expired(m.now()) {
		entry.mu.Unlock()
		// Lazy expiry: reclaim on access instead of waiting for the sweep.
		m.reclaim(sessionID, entry)
		return nil, ErrExpired
	}
	copied := *entry.session
	entry.mu.Unlock()
	return &copied, nil
}

func (m *MemoryStore) Update(ctx context.Context, sessionID string, fn func(*models.PaymentSession) error) (*models.PaymentSession, error) {
	entry, ok := m.entry(sessionID)
	if !ok {
		return nil, ErrNotFound
	}

	entry.mu.Lock()
	if entry.session.Expired(m.now()) {
		entry.mu.Unlock()
		m.reclaim(sessionID, entry)
		return nil, ErrExpired
	}

	working := *entry.session
	if err := fn(&working); err != nil {
		entry.mu.Unlock()
		return nil, err
	}
	entry.session = &working
	entry.mu.Unlock()

	copied := working
	return &copied, nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Sweep(ctx context.Context) (int, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	reclaimed := 0
	for id, entry := range m.sessions {
		entry.mu.Lock()
		expired := entry.session.Expired(now)
		entry.mu.Unlock()
		if expired {
			delete(m.sessions, id)
			reclaimed++
		}
	}
	return reclaimed, nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// Len reports live entries, expired or not. Used by the sweeper log line.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
