package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
)

// Ensure ResultStore implements the interface.
var _ driven.ResultStore = (*ResultStore)(nil)

type resultEntry struct {
	result  *domain.BatchResult
	savedAt time.Time
}

// ResultStore is an in-memory implementation of driven.ResultStore.
// Results are kept per session until replaced, deleted or expired.
type ResultStore struct {
	mu      sync.RWMutex
	entries map[string]resultEntry
	now     func() time.Time
}

// NewResultStore creates a new in-memory result store.
func NewResultStore() *ResultStore {
	return &ResultStore{
		entries: make(map[string]resultEntry),
		now:     time.Now,
	}
}

// Save replaces the session's result.
func (s *ResultStore) Save(_ context.Context, sessionID string, result *domain.BatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = resultEntry{result: result, savedAt: s.now()}
	return nil
}

// Get returns the session's result.
func (s *ResultStore) Get(_ context.Context, sessionID string) (*domain.BatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sessionID, domain.ErrNotFound)
	}
	return entry.result, nil
}

// Delete drops the session's result.
func (s *ResultStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// Expire drops results saved before cutoff.
func (s *ResultStore) Expire(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, entry := range s.entries {
		if entry.savedAt.Before(cutoff) {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of sessions held.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
