package rag

import (
	"context"
	"iter"
	"net/http"
	"time"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/internal/rag/embedding"
	"github.com/chatlet/chatlet/internal/rag/llm"
	"github.com/chatlet/chatlet/internal/rag/vectorDB"
	"github.com/chatlet/chatlet/internal/tasks"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

// FileUpload is an uploaded file as the handler received it: declared MIME
// type and all, which is why validation double-checks the extension.
type FileUpload struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

type IngestResult struct {
	DocumentId    int64
	SectionsCount int
}

// ChatInput is a chat request after session resolution.
type ChatInput struct {
	TenantId       string
	UserId         string
	ConversationId string
	Messages       []commonModels.Message
}

// Answer is the dual-mode result of a chat request. Handlers must switch on
// the concrete type: Complete is a finished grounded reply, Stream delivers
// ungrounded fragments as they arrive.
type Answer interface {
	isAnswer()
}

type Complete struct {
	Text string
}

type Stream struct {
	Fragments iter.Seq2[string, error]
}

func (Complete) isAnswer() {}
func (Stream) isAnswer()   {}

// Service is the ingestion + RAG pipeline. Handlers only ever talk to this;
// the vector store, embedder and model stay private to the implementation.
type Service interface {
	IngestFile(ctx context.Context, apiKey string, upload FileUpload) (IngestResult, error)
	IngestURL(ctx context.Context, apiKey, pageURL string) (IngestResult, error)
	Search(ctx context.Context, tenantId, query string) ([]vectorDB.Match, error)
	Respond(ctx context.Context, input ChatInput) (Answer, error)
}

type service struct {
	tenants   commonModels.TenantStore
	documents commonModels.DocumentStore
	usage     commonModels.UsageStore
	chats     commonModels.ChatStore
	vector    vectorDB.SectionStore
	embedder  embedding.Embedder
	llm       llm.Provider
	runner    tasks.Runner
	webClient *http.Client
	logger    *logger_i.Logger
}

type Deps struct {
	Tenants   commonModels.TenantStore
	Documents commonModels.DocumentStore
	Usage     commonModels.UsageStore
	Chats     commonModels.ChatStore
	Vector    vectorDB.SectionStore
	Embedder  embedding.Embedder
	LLM       llm.Provider
	Runner    tasks.Runner
	WebClient *http.Client
}

func NewService(deps Deps) Service {
	return &service{
		tenants:   deps.Tenants,
		documents: deps.Documents,
		usage:     deps.Usage,
		chats:     deps.Chats,
		vector:    deps.Vector,
		embedder:  deps.Embedder,
		llm:       deps.LLM,
		runner:    deps.Runner,
		webClient: deps.WebClient,
		logger:    logger_i.NewLogger("RAG Service"),
	}
}

// trackUsage bumps the per-day counter off the request path. A failed
// increment must never fail the request that triggered it.
func (s *service) trackUsage(tenantId, endpoint string) {
	day := time.Now().UTC().Format("2006-01-02")
	s.runner.Submit("usage:"+endpoint, func(ctx context.Context) {
		if err := s.usage.Increment(ctx, tenantId, endpoint, day); err != nil {
			s.logger.Error("usage tracking failed", "tenantId", tenantId, "endpoint", endpoint, "error", err)
		}
	})
}

func traceLogger(ctx context.Context, l *logger_i.Logger) *logger_i.Logger {
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		return l.With("traceId", trace)
	}
	return l
}
