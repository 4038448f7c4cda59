package rag

import (
	"context"
	"strings"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/rag/vectorDB"
)

// Search embeds the query and runs a tenant-scoped similarity lookup. Matches
// come back best-first, already cut off at the similarity threshold.
func (s *service) Search(ctx context.Context, tenantId, query string) ([]vectorDB.Match, error) {
	embedCtx, cancel := context.WithTimeout(ctx, config.EmbeddingTimeout)
	defer cancel()

	vector, err := s.embedder.GetEmbedding(embedCtx, query)
	if err != nil {
		return nil, err
	}

	searchCtx, cancel := context.WithTimeout(ctx, config.SearchTimeout)
	defer cancel()

	return s.vector.Search(searchCtx, tenantId, vector, config.SimilarityThreshold, config.RetrievalTopK)
}

// retrieveContext is Search with the failure mode chat needs: any retrieval
// error degrades to an empty context so the model still answers, ungrounded.
func (s *service) retrieveContext(ctx context.Context, tenantId, query string) string {
	matches, err := s.Search(ctx, tenantId, query)
	if err != nil {
		traceLogger(ctx, s.logger).Warn("retrieval failed, answering without context", "tenantId", tenantId, "error", err)
		return ""
	}
	if len(matches) == 0 {
		return ""
	}
	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = m.Content
	}
	return strings.Join(parts, "\n\n")
}
