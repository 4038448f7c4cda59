package store

import (
	"context"
	"sync"

	"github.com/chatlet/chatlet/internal/domain/commonModels"
)

type InMemoryDocumentStore struct {
	mu     sync.RWMutex
	nextId int64
	docs   map[int64]commonModels.Document
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docs: make(map[int64]commonModels.Document),
	}
}

func (s *InMemoryDocumentStore) Create(ctx context.Context, doc commonModels.Document) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	doc.Id = s.nextId
	s.docs[doc.Id] = doc
	return doc.Id, nil
}

func (s *InMemoryDocumentStore) ById(ctx context.Context, tenantId string, id int64) (commonModels.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok || doc.TenantId != tenantId {
		return commonModels.Document{}, false, nil
	}
	return doc, true, nil
}

// Count is a test helper.
func (s *InMemoryDocumentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
