package gemini

import (
	"context"
	"iter"
	"sync"

	"google.golang.org/genai"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/domain/apperrors"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/internal/metrics"
	"github.com/chatlet/chatlet/internal/rag/llm"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var (
	logger       *logger_i.Logger
	geminiClient *llmClient
	once         sync.Once
)

func GetGeminiClient(ctx context.Context, modelName, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}
}

func newGeminiClient(ctx context.Context, modelName, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return
	}
	geminiClient = &llmClient{client: c, modelName: modelName}
	logger.Info("Gemini client created", "model", modelName)
	go closeClient(ctx, geminiClient)
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llm.client = nil
	llm.modelName = ""
}

func (c *llmClient) Generate(ctx context.Context, history []commonModels.Message, message string) (string, error) {
	defer metrics.TimeDependency("llm_generation")()

	result, err := c.client.Models.GenerateContent(ctx, c.modelName,
		toContents(history, message), generationConfig())
	if err != nil {
		logger.Error("Gemini generation failed", "error", err)
		return "", apperrors.Generation(err)
	}
	return result.Text(), nil
}

// GenerateStream yields response fragments as the model produces them. The
// sequence stops on the first upstream error; the caller decides what to do
// with whatever text already arrived.
func (c *llmClient) GenerateStream(ctx context.Context, history []commonModels.Message, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		defer metrics.TimeDependency("llm_generation")()

		stream := c.client.Models.GenerateContentStream(ctx, c.modelName,
			toContents(history, message), generationConfig())

		for chunk, err := range stream {
			if err != nil {
				logger.Error("Gemini stream failed", "error", err)
				yield("", apperrors.Generation(err))
				return
			}
			if text := chunk.Text(); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
	}
}

func generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: config.ModelContext}},
		},
		Temperature:     genai.Ptr(config.ModelTemperature),
		MaxOutputTokens: config.MaxOutputTokens,
	}
}

// toContents maps prior turns to Gemini's role tokens: "assistant" becomes
// "model", everything else is "user". The final user message goes last.
func toContents(history []commonModels.Message, message string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		role := genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: message}},
	})
	return contents
}
