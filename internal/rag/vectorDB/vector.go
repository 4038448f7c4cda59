package vectorDB

import (
	"context"

	"github.com/chatlet/chatlet/internal/domain/commonModels"
)

// Match is one retrieval hit, best-first ordering is the store's job.
type Match struct {
	Content    string
	DocumentId int64
	TenantId   string
	Score      float32
}

// SectionStore is the tenant-scoped vector index over document sections.
// Search must never return a section belonging to a different tenant, no
// matter how similar it is; the filter is part of the query, not a
// post-processing step.
type SectionStore interface {
	EnsureCollection(ctx context.Context) error
	UpsertSections(ctx context.Context, sections []commonModels.DocumentSection) error
	Search(ctx context.Context, tenantId string, vector []float32, threshold float32, topK int) ([]Match, error)
}
