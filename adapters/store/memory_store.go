package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/didauth/ports"
)

// MemoryStore is an in-memory implementation of the Store interface
type MemoryStore struct {
	revoked map[string]time.Time
	mu      sync.RWMutex
	now     func() time.Time
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() ports.Store {
	return newMemoryStore(time.Now)
}

func newMemoryStore(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		now:     now,
	}
}

// RevokeSession marks a session as revoked for the given duration
func (s *MemoryStore) RevokeSession(ctx context.Context, sessionID string, expiry time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	// Expired entries are dropped on write instead of by a timer per entry.
	for id, until := range s.revoked {
		if now.After(until) {
			delete(s.revoked, id)
		}
	}

	until := now.Add(expiry)
	if current, exists := s.revoked[sessionID]; !exists || until.After(current) {
		s.revoked[sessionID] = until
	}

	return nil
}

// IsSessionRevoked checks if a session is revoked
func (s *MemoryStore) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	until, exists := s.revoked[sessionID]
	if !exists {
		return false, nil
	}

	// Check if the revocation has lapsed
	if s.now().After(until) {
		return false, nil
	}

	return true, nil
}
