package sessionRepo

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"flightdesk/models"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemorySessionStore is a process-local SessionStore. Sessions round-trip through JSON
// like they do in redis, so callers never share state with the store.
type MemorySessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// SetClock replaces the clock used for expiry.
func (m *MemorySessionStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemorySessionStore) Get(_ context.Context, sessionID string) (*models.BookingSession, error) {
	m.mu.Lock()
	entry, ok := m.entries[sessionID]
	if ok && m.ttl > 0 && !m.now().Before(entry.expiresAt) {
		delete(m.entries, sessionID)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var session models.BookingSession
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (m *MemorySessionStore) Save(_ context.Context, session *models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[session.SessionID] = memoryEntry{data: data, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(m.entries, sessionID)
	return nil
}
