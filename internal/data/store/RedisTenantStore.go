package store

import (
	"context"
	"encoding/json"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/data/redisStore"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

// RedisTenantStore reads tenant records written by the signup flow. Keys:
// tenant:<id> holds the JSON record, apikey:<key> indexes back to the id.
type RedisTenantStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisTenantStore(ctx context.Context) *RedisTenantStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisTenantStore)
	if inner == nil {
		return nil
	}
	return &RedisTenantStore{
		store:  inner,
		logger: logger_i.NewLogger("TenantStore"),
	}
}

func (s *RedisTenantStore) ByAPIKey(ctx context.Context, apiKey string) (commonModels.Tenant, bool, error) {
	if apiKey == "" {
		return commonModels.Tenant{}, false, nil
	}
	id, err := s.store.Get(ctx, "apikey:"+apiKey)
	if s.store.IsNil(err) {
		return commonModels.Tenant{}, false, nil
	} else if err != nil {
		s.logger.Error("api key lookup failed", "error", err)
		return commonModels.Tenant{}, false, err
	}
	return s.ById(ctx, id)
}

func (s *RedisTenantStore) ById(ctx context.Context, id string) (commonModels.Tenant, bool, error) {
	raw, err := s.store.Get(ctx, "tenant:"+id)
	if s.store.IsNil(err) {
		return commonModels.Tenant{}, false, nil
	} else if err != nil {
		s.logger.Error("tenant lookup failed", "tenantId", id, "error", err)
		return commonModels.Tenant{}, false, err
	}

	tenant, err := decodeTenant([]byte(raw))
	if err != nil {
		s.logger.Error("tenant record is unreadable", "tenantId", id, "error", err)
		return commonModels.Tenant{}, false, err
	}
	return tenant, true, nil
}

// decodeTenant reads the settings blob as a loose map because stored records
// historically used alias keys (primaryColor, logo, greeting). Normalization
// happens here, once, so the rest of the code only ever sees canonical
// settings.
func decodeTenant(raw []byte) (commonModels.Tenant, error) {
	var loose struct {
		Id       string         `json:"id"`
		APIKey   string         `json:"api_key"`
		Name     string         `json:"name"`
		Settings map[string]any `json:"settings"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return commonModels.Tenant{}, err
	}
	return commonModels.Tenant{
		Id:       loose.Id,
		APIKey:   loose.APIKey,
		Name:     loose.Name,
		Settings: commonModels.NormalizeWidgetSettings(loose.Settings),
	}, nil
}

// TestTenantStore exposes construction for miniredis-backed tests.
func TestTenantStore(inner *redisStore.Store) *RedisTenantStore {
	return &RedisTenantStore{store: inner, logger: logger_i.NewLogger("TenantStore")}
}
