package store

import (
	"context"
	"sync"

	"github.com/chatlet/chatlet/internal/domain/commonModels"
)

// InMemoryTenantStore is the fallback when Redis is offline and the seed for
// tests. Tenants are registered up front; there is no write path at runtime.
type InMemoryTenantStore struct {
	mu       sync.RWMutex
	byId     map[string]commonModels.Tenant
	byAPIKey map[string]string
}

func InitInMemoryTenantStore() *InMemoryTenantStore {
	return &InMemoryTenantStore{
		byId:     make(map[string]commonModels.Tenant),
		byAPIKey: make(map[string]string),
	}
}

func (s *InMemoryTenantStore) Register(tenant commonModels.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byId[tenant.Id] = tenant
	if tenant.APIKey != "" {
		s.byAPIKey[tenant.APIKey] = tenant.Id
	}
}

func (s *InMemoryTenantStore) ByAPIKey(ctx context.Context, apiKey string) (commonModels.Tenant, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byAPIKey[apiKey]
	if !ok {
		return commonModels.Tenant{}, false, nil
	}
	tenant, ok := s.byId[id]
	return tenant, ok, nil
}

func (s *InMemoryTenantStore) ById(ctx context.Context, id string) (commonModels.Tenant, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenant, ok := s.byId[id]
	return tenant, ok, nil
}
