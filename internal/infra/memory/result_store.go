package memory

import (
	"context"
	"sync"

	"decor-funnel/internal/domain"
)

// ResultStore keeps the latest quiz result per visitor in process memory.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]domain.StoredResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[string]domain.StoredResult)}
}

func (s *ResultStore) SaveResult(_ context.Context, visitorID string, result domain.StoredResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[visitorID] = result
	return nil
}

func (s *ResultStore) LoadResult(_ context.Context, visitorID string) (domain.StoredResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if res, ok := s.results[visitorID]; ok {
		return res, nil
	}
	return domain.StoredResult{}, domain.ErrResultNotFound
}
