package store

import (
	"context"
	"sync"

	"github.com/chatlet/chatlet/internal/domain/commonModels"
)

type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]commonModels.Session
}

func InitInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]commonModels.Session)}
}

func (s *InMemorySessionStore) Register(token string, session commonModels.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session
}

func (s *InMemorySessionStore) Resolve(ctx context.Context, token string) (commonModels.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	return session, ok, nil
}
