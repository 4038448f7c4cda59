package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	//widget endpoint rate limit: 100 requests per 15 minutes per IP
	WidgetRateLimitWindow   = 15 * time.Minute
	WidgetRateLimitRequests = 100

	//ingestion limits
	MaxUploadSizeBytes int64 = 10 << 20 //10MB ceiling, checked before any extraction

	//chunking - characters, not tokens
	ChunkSize    = 1000
	ChunkOverlap = 200

	//retrieval
	SimilarityThreshold float32 = 0.5
	RetrievalTopK               = 5

	//embeddings - 768 matches text-embedding-004 output
	EmbeddingOutputDimensionality int32 = 768
	SectionCollectionName               = "document-sections"

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 120 * time.Second //long enough for a full generation stream
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//per-operation deadlines
	ExtractionFetchTimeout = 15 * time.Second
	EmbeddingTimeout       = 30 * time.Second
	SearchTimeout          = 30 * time.Second
	GenerationTimeout      = 60 * time.Second
	PersistenceTimeout     = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//background task runner
	TaskBufferLimit   = 100
	TaskWorkerCount   = 2
	TaskSubmitTimeout = 100 * time.Millisecond

	//vectorDB
	QdrantHost             = ""
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 1
	QdrantKeepAliveTimeout = 30 * time.Second

	//llm
	GeminiModelName      = "gemini-flash-latest"
	GoogleEmbeddingModel = "text-embedding-004"

	ModelTemperature float32 = 0.7
	MaxOutputTokens  int32   = 1000
	ModelContext             = "You are a helpful assistant for this business. Answer from the provided context when it is available. If you don't know the answer, say you don't know."

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DBs we can use
	RedisTenantStore   = 0
	RedisDocumentStore = 1
	RedisUsageStore    = 2
	RedisChatStore     = 3
	RedisSessionStore  = 4
)

// GoogleAPIKey resolves the Gemini credential the same way the dashboard does:
// GEMINI_API_KEY first, GOOGLE_API_KEY as the fallback.
func GoogleAPIKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}
