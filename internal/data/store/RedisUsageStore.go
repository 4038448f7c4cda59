package store

import (
	"context"
	"fmt"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/data/redisStore"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

// RedisUsageStore keeps one counter per (tenant, endpoint, day). INCR creates
// the key on first use, so two calls on the same day always land on the same
// row with count 2 - there is no separate insert path to race against.
type RedisUsageStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisUsageStore(ctx context.Context) *RedisUsageStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisUsageStore)
	if inner == nil {
		return nil
	}
	return &RedisUsageStore{
		store:  inner,
		logger: logger_i.NewLogger("UsageStore"),
	}
}

func (s *RedisUsageStore) Increment(ctx context.Context, tenantId, endpoint, day string) error {
	_, err := s.store.Incr(ctx, usageKey(tenantId, endpoint, day))
	if err != nil {
		s.logger.Error("usage increment failed", "tenantId", tenantId, "endpoint", endpoint, "error", err)
	}
	return err
}

func (s *RedisUsageStore) Count(ctx context.Context, tenantId, endpoint, day string) (int64, error) {
	n, err := s.store.GetInt(ctx, usageKey(tenantId, endpoint, day))
	if s.store.IsNil(err) {
		return 0, nil
	}
	return n, err
}

func usageKey(tenantId, endpoint, day string) string {
	return fmt.Sprintf("usage:%s:%s:%s", tenantId, endpoint, day)
}

func TestUsageStore(inner *redisStore.Store) *RedisUsageStore {
	return &RedisUsageStore{store: inner, logger: logger_i.NewLogger("UsageStore")}
}
