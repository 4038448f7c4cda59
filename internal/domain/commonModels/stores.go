package commonModels

import "context"

// TenantStore looks tenants up by API key (ingestion) or by id (widget).
type TenantStore interface {
	ByAPIKey(ctx context.Context, apiKey string) (Tenant, bool, error)
	ById(ctx context.Context, id string) (Tenant, bool, error)
}

// DocumentStore persists document metadata. Sections live in the vector
// store; a document whose sections were never written simply never matches a
// search, so no rollback path exists here.
type DocumentStore interface {
	Create(ctx context.Context, doc Document) (int64, error)
	ById(ctx context.Context, tenantId string, id int64) (Document, bool, error)
}

// UsageStore is the per-tenant, per-endpoint, per-day request counter.
// Increment must collapse concurrent calls for the same day into one row.
type UsageStore interface {
	Increment(ctx context.Context, tenantId, endpoint, day string) error
	Count(ctx context.Context, tenantId, endpoint, day string) (int64, error)
}

// ChatStore holds conversation payloads, keyed by conversation id.
type ChatStore interface {
	Save(ctx context.Context, conv Conversation) error
	ById(ctx context.Context, id string) (Conversation, bool, error)
}

// SessionStore resolves a session token into a user/tenant identity.
type SessionStore interface {
	Resolve(ctx context.Context, token string) (Session, bool, error)
}
