package store

import (
	"context"
	"encoding/json"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/data/redisStore"
	"github.com/chatlet/chatlet/internal/domain/apperrors"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

// RedisChatStore persists whole conversation payloads. Save overwrites the
// payload with the new turn appended, which is how the dashboard reads them.
type RedisChatStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisChatStore(ctx context.Context) *RedisChatStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisChatStore)
	if inner == nil {
		return nil
	}
	return &RedisChatStore{
		store:  inner,
		logger: logger_i.NewLogger("ChatStore"),
	}
}

func (s *RedisChatStore) Save(ctx context.Context, conv commonModels.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return apperrors.Persistence("conversation encode", err)
	}
	if err := s.store.Set(ctx, "chat:"+conv.Id, data, 0); err != nil {
		s.logger.Error("saving conversation failed", "conversationId", conv.Id, "error", err)
		return apperrors.Persistence("conversation write", err)
	}
	s.logger.Debug("saved conversation", "conversationId", conv.Id, "turns", len(conv.Messages))
	return nil
}

func (s *RedisChatStore) ById(ctx context.Context, id string) (commonModels.Conversation, bool, error) {
	raw, err := s.store.Get(ctx, "chat:"+id)
	if s.store.IsNil(err) {
		return commonModels.Conversation{}, false, nil
	} else if err != nil {
		return commonModels.Conversation{}, false, err
	}

	var conv commonModels.Conversation
	if err := json.Unmarshal([]byte(raw), &conv); err != nil {
		return commonModels.Conversation{}, false, err
	}
	return conv, true, nil
}

func TestChatStore(inner *redisStore.Store) *RedisChatStore {
	return &RedisChatStore{store: inner, logger: logger_i.NewLogger("ChatStore")}
}
