package embedding

import "context"

// Embedder turns text into fixed-dimension vectors. BatchEmbedding preserves
// input order and issues calls sequentially to respect upstream quota;
// neither method retries, that is the caller's call.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
	BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}
