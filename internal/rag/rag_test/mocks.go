package rag_test

import (
	"context"
	"iter"

	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/internal/rag/vectorDB"
)

// MockTenantStore implements commonModels.TenantStore
type MockTenantStore struct {
	OnByAPIKey func(ctx context.Context, apiKey string) (commonModels.Tenant, bool, error)
	OnById     func(ctx context.Context, id string) (commonModels.Tenant, bool, error)
}

func (m *MockTenantStore) ByAPIKey(ctx context.Context, apiKey string) (commonModels.Tenant, bool, error) {
	if m.OnByAPIKey != nil {
		return m.OnByAPIKey(ctx, apiKey)
	}
	return commonModels.Tenant{Id: "tenant-1", APIKey: apiKey}, true, nil
}

func (m *MockTenantStore) ById(ctx context.Context, id string) (commonModels.Tenant, bool, error) {
	if m.OnById != nil {
		return m.OnById(ctx, id)
	}
	return commonModels.Tenant{Id: id}, true, nil
}

// MockDocumentStore implements commonModels.DocumentStore
type MockDocumentStore struct {
	Created  []commonModels.Document
	OnCreate func(ctx context.Context, doc commonModels.Document) (int64, error)
}

func (m *MockDocumentStore) Create(ctx context.Context, doc commonModels.Document) (int64, error) {
	if m.OnCreate != nil {
		return m.OnCreate(ctx, doc)
	}
	m.Created = append(m.Created, doc)
	return int64(len(m.Created)), nil
}

func (m *MockDocumentStore) ById(ctx context.Context, tenantId string, id int64) (commonModels.Document, bool, error) {
	return commonModels.Document{}, false, nil
}

// MockUsageStore implements commonModels.UsageStore
type MockUsageStore struct {
	Increments []string
}

func (m *MockUsageStore) Increment(ctx context.Context, tenantId, endpoint, day string) error {
	m.Increments = append(m.Increments, tenantId+":"+endpoint)
	return nil
}

func (m *MockUsageStore) Count(ctx context.Context, tenantId, endpoint, day string) (int64, error) {
	return int64(len(m.Increments)), nil
}

// MockChatStore implements commonModels.ChatStore
type MockChatStore struct {
	Saved  []commonModels.Conversation
	OnSave func(ctx context.Context, conv commonModels.Conversation) error
}

func (m *MockChatStore) Save(ctx context.Context, conv commonModels.Conversation) error {
	if m.OnSave != nil {
		return m.OnSave(ctx, conv)
	}
	m.Saved = append(m.Saved, conv)
	return nil
}

func (m *MockChatStore) ById(ctx context.Context, id string) (commonModels.Conversation, bool, error) {
	return commonModels.Conversation{}, false, nil
}

// MockSectionStore implements vectorDB.SectionStore
type MockSectionStore struct {
	Upserted []commonModels.DocumentSection
	OnUpsert func(ctx context.Context, sections []commonModels.DocumentSection) error
	OnSearch func(ctx context.Context, tenantId string, vector []float32, threshold float32, topK int) ([]vectorDB.Match, error)
}

func (m *MockSectionStore) EnsureCollection(ctx context.Context) error { return nil }

func (m *MockSectionStore) UpsertSections(ctx context.Context, sections []commonModels.DocumentSection) error {
	if m.OnUpsert != nil {
		return m.OnUpsert(ctx, sections)
	}
	m.Upserted = append(m.Upserted, sections...)
	return nil
}

func (m *MockSectionStore) Search(ctx context.Context, tenantId string, vector []float32, threshold float32, topK int) ([]vectorDB.Match, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, tenantId, vector, threshold, topK)
	}
	return nil, nil
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	Calls            int
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.Calls++
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	m.Calls++
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2}
	}
	return vectors, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	LastMessage string
	LastHistory []commonModels.Message
	OnGenerate  func(ctx context.Context, history []commonModels.Message, message string) (string, error)
	OnStream    func(ctx context.Context, history []commonModels.Message, message string) iter.Seq2[string, error]
}

func (m *MockLLM) Generate(ctx context.Context, history []commonModels.Message, message string) (string, error) {
	m.LastMessage = message
	m.LastHistory = history
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, history, message)
	}
	return "mocked llm response", nil
}

func (m *MockLLM) GenerateStream(ctx context.Context, history []commonModels.Message, message string) iter.Seq2[string, error] {
	m.LastMessage = message
	m.LastHistory = history
	if m.OnStream != nil {
		return m.OnStream(ctx, history, message)
	}
	return func(yield func(string, error) bool) {
		for _, f := range []string{"mocked ", "stream ", "response"} {
			if !yield(f, nil) {
				return
			}
		}
	}
}

// SyncRunner executes submitted tasks inline so tests see their effects
// immediately.
type SyncRunner struct {
	Submitted []string
}

func (r *SyncRunner) Submit(name string, task func(ctx context.Context)) {
	r.Submitted = append(r.Submitted, name)
	task(context.Background())
}
