package googleEmbedding

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/domain/apperrors"
	"github.com/chatlet/chatlet/internal/metrics"
	"github.com/chatlet/chatlet/internal/rag/embedding"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

var (
	logger          *logger_i.Logger
	once            sync.Once
	embeddingClient *client
	dimension       = config.EmbeddingOutputDimensionality
)

type client struct {
	genAi *genai.Client
	model string
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}
}

func newGoogleEmbedder(ctx context.Context, modelName, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		return
	}
	embeddingClient = &client{genAi: c, model: modelName}
	logger.Info("Google Embedding client created", "model", modelName)
	go closeClient(ctx, embeddingClient)
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text, "RETRIEVAL_QUERY")
}

// BatchEmbedding embeds each chunk with one sequential upstream call,
// deliberately unparallelized to stay under the provider's rate limits.
// Result order matches input order.
func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, t := range texts {
		vec, err := c.embed(ctx, t, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

func (c *client) embed(ctx context.Context, text, taskType string) ([]float32, error) {
	defer metrics.TimeDependency("embedding")()

	result, err := c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(text),
		&genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: taskType})
	if err != nil {
		logger.Error("Error getting embedding from Google", "error", err)
		return nil, apperrors.Embedding(err)
	}
	if len(result.Embeddings) == 0 {
		return nil, apperrors.Embedding(fmt.Errorf("empty embedding response"))
	}

	vec := result.Embeddings[0].Values
	if len(vec) != int(dimension) {
		//a mismatch here would silently poison the index, surface it now
		return nil, fmt.Errorf("%w: embedding has %d dimensions, expected %d",
			apperrors.ErrConfiguration, len(vec), dimension)
	}
	return vec, nil
}
