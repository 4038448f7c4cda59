package store

import (
	"context"
	"encoding/json"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/data/redisStore"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

// RedisSessionStore resolves session tokens minted by the login flow. This
// side only ever reads.
type RedisSessionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisSessionStore(ctx context.Context) *RedisSessionStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisSessionStore)
	if inner == nil {
		return nil
	}
	return &RedisSessionStore{
		store:  inner,
		logger: logger_i.NewLogger("SessionStore"),
	}
}

func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (commonModels.Session, bool, error) {
	if token == "" {
		return commonModels.Session{}, false, nil
	}
	raw, err := s.store.Get(ctx, "session:"+token)
	if s.store.IsNil(err) {
		return commonModels.Session{}, false, nil
	} else if err != nil {
		s.logger.Error("session lookup failed", "error", err)
		return commonModels.Session{}, false, err
	}

	var session commonModels.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return commonModels.Session{}, false, err
	}
	return session, true, nil
}

func TestSessionStore(inner *redisStore.Store) *RedisSessionStore {
	return &RedisSessionStore{store: inner, logger: logger_i.NewLogger("SessionStore")}
}
