package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/data/redisStore"
	"github.com/chatlet/chatlet/internal/domain/apperrors"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

// RedisDocumentStore holds document metadata. The surrogate numeric id comes
// from an INCR sequence; the record itself lives at document:<tenant>:<id> so
// reads are tenant-scoped by construction.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if inner == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  inner,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) Create(ctx context.Context, doc commonModels.Document) (int64, error) {
	id, err := s.store.Incr(ctx, "documents:next_id")
	if err != nil {
		return 0, apperrors.Persistence("document id sequence", err)
	}
	doc.Id = id

	data, err := json.Marshal(doc)
	if err != nil {
		return 0, apperrors.Persistence("document encode", err)
	}
	if err := s.store.Set(ctx, documentKey(doc.TenantId, id), data, 0); err != nil {
		return 0, apperrors.Persistence("document write", err)
	}

	s.logger.Debug("created document", "tenantId", doc.TenantId, "documentId", id)
	return id, nil
}

func (s *RedisDocumentStore) ById(ctx context.Context, tenantId string, id int64) (commonModels.Document, bool, error) {
	raw, err := s.store.Get(ctx, documentKey(tenantId, id))
	if s.store.IsNil(err) {
		return commonModels.Document{}, false, nil
	} else if err != nil {
		return commonModels.Document{}, false, err
	}

	var doc commonModels.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return commonModels.Document{}, false, err
	}
	return doc, true, nil
}

func documentKey(tenantId string, id int64) string {
	return fmt.Sprintf("document:%s:%d", tenantId, id)
}

func TestDocumentStore(inner *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{store: inner, logger: logger_i.NewLogger("DocumentStore")}
}
