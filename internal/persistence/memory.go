package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/spec-kit/ticket-dashboard/internal/session"
)

type memoryEntry struct {
	raw      []byte
	lastSeen time.Time
}

// MemorySessionStore keeps sessions in process. Values are stored encoded so
// callers never share state between requests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemorySessionStore constructs an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

// Load reads the state of id, or session.ErrNotFound.
func (s *MemorySessionStore) Load(_ context.Context, id string) (*session.State, error) {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, session.ErrNotFound
	}
	var st session.State
	if err := json.Unmarshal(entry.raw, &st); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &st, nil
}

// Save stores st.
func (s *MemorySessionStore) Save(_ context.Context, st *session.State) error {
	now := s.now()
	st.UpdatedAt = now.UTC()
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	s.mu.Lock()
	s.sessions[st.ID] = memoryEntry{raw: raw, lastSeen: now}
	s.mu.Unlock()
	return nil
}

// Sweep drops sessions idle for longer than ttl and reports how many went.
func (s *MemorySessionStore) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports how many sessions are held.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Ping always succeeds.
func (s *MemorySessionStore) Ping(context.Context) error {
	return nil
}
