package store

import (
	"context"
	"sync"

	"github.com/chatlet/chatlet/internal/domain/commonModels"
)

type InMemoryChatStore struct {
	mu    sync.RWMutex
	convs map[string]commonModels.Conversation
}

func InitInMemoryChatStore() *InMemoryChatStore {
	return &InMemoryChatStore{convs: make(map[string]commonModels.Conversation)}
}

func (s *InMemoryChatStore) Save(ctx context.Context, conv commonModels.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[conv.Id] = conv
	return nil
}

func (s *InMemoryChatStore) ById(ctx context.Context, id string) (commonModels.Conversation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.convs[id]
	return conv, ok, nil
}
