package memory

import (
	"context"
	"sync"

	"github.com/mulesoft-labs/twiml/pkg/domain"
)

// Store implements ports.CallStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.CallState
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.CallState),
	}
}

// Save persists the call state in memory.
func (s *Store) Save(ctx context.Context, callSID string, state *domain.CallState) error {
	// Store a copy so later caller mutations don't bleed in, matching the
	// isolation a serializing backend gives for free.
	copied := state.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[callSID] = copied
	return nil
}

// Load retrieves the call state from memory.
func (s *Store) Load(ctx context.Context, callSID string) (*domain.CallState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[callSID]
	if !ok {
		return nil, domain.ErrCallNotFound
	}
	return state.Clone(), nil
}

// Delete removes the call state.
func (s *Store) Delete(ctx context.Context, callSID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, callSID)
	return nil
}

// List returns the SIDs of stored calls.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	calls := make([]string, 0, len(s.data))
	for sid := range s.data {
		calls = append(calls, sid)
	}
	return calls, nil
}
