package middleware_test

import (
	"context"

	"github.com/mulesoft-labs/twiml/pkg/domain"
	"github.com/mulesoft-labs/twiml/pkg/ports"
)

// MockStore is a simple map-based store for testing middleware. It hands back
// exactly what was saved, so tests can inspect the persisted form.
type MockStore struct {
	data map[string]*domain.CallState
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.CallState),
	}
}

func (s *MockStore) Save(ctx context.Context, callSID string, state *domain.CallState) error {
	s.data[callSID] = state
	return nil
}

func (s *MockStore) Load(ctx context.Context, callSID string) (*domain.CallState, error) {
	state, ok := s.data[callSID]
	if !ok {
		return nil, domain.ErrCallNotFound
	}
	return state, nil
}

func (s *MockStore) Delete(ctx context.Context, callSID string) error {
	delete(s.data, callSID)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

var _ ports.CallStore = (*MockStore)(nil)
