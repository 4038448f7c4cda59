package store

import (
	"context"
	"fmt"
	"sync"
)

type InMemoryUsageStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func InitInMemoryUsageStore() *InMemoryUsageStore {
	return &InMemoryUsageStore{counts: make(map[string]int64)}
}

func (s *InMemoryUsageStore) Increment(ctx context.Context, tenantId, endpoint, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[fmt.Sprintf("%s:%s:%s", tenantId, endpoint, day)]++
	return nil
}

func (s *InMemoryUsageStore) Count(ctx context.Context, tenantId, endpoint, day string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[fmt.Sprintf("%s:%s:%s", tenantId, endpoint, day)], nil
}
