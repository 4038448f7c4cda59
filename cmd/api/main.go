package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/customHttpClient"
	"github.com/chatlet/chatlet/internal/data/store"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/internal/handlers"
	"github.com/chatlet/chatlet/internal/rag"
	"github.com/chatlet/chatlet/internal/rag/embedding/googleEmbedding"
	"github.com/chatlet/chatlet/internal/rag/llm/gemini"
	"github.com/chatlet/chatlet/internal/rag/vectorDB/qdrantDB"
	"github.com/chatlet/chatlet/internal/server"
	"github.com/chatlet/chatlet/internal/tasks"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

var (
	listenAddr      string
	stopTaskChannel chan bool
	taskWaitGroup   sync.WaitGroup
)

func main() {

	//.env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	stopTaskChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//stores, all fall back to the in-memory variants when redis is offline
	redisTenants := store.GetRedisTenantStore(serviceContext)
	redisDocuments := store.GetRedisDocumentStore(serviceContext)
	redisUsage := store.GetRedisUsageStore(serviceContext)
	redisChats := store.GetRedisChatStore(serviceContext)
	redisSessions := store.GetRedisSessionStore(serviceContext)

	var tenantStore commonModels.TenantStore
	var documentStore commonModels.DocumentStore
	var usageStore commonModels.UsageStore
	var chatStore commonModels.ChatStore
	var sessionStore commonModels.SessionStore

	if redisTenants == nil || redisDocuments == nil || redisUsage == nil || redisChats == nil || redisSessions == nil {
		logger.Error("Redis stores are offline, using in-memory stores")
		tenantStore = store.InitInMemoryTenantStore()
		documentStore = store.InitInMemoryDocumentStore()
		usageStore = store.InitInMemoryUsageStore()
		chatStore = store.InitInMemoryChatStore()
		sessionStore = store.InitInMemorySessionStore()
	} else {
		tenantStore = redisTenants
		documentStore = redisDocuments
		usageStore = redisUsage
		chatStore = redisChats
		sessionStore = redisSessions
	}

	apiKey := config.GoogleAPIKey()
	vectorDB := qdrantDB.GetQdrantClient(serviceContext)
	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, apiKey)
	llmProvider := gemini.GetGeminiClient(serviceContext, config.GeminiModelName, apiKey)

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	if err := vectorDB.EnsureCollection(serviceContext); err != nil {
		logger.Error("Could not prepare the vector collection", "error", err)
		return
	}

	taskRunner := tasks.InitRunner(stopTaskChannel, &taskWaitGroup)

	ragService := rag.NewService(rag.Deps{
		Tenants:   tenantStore,
		Documents: documentStore,
		Usage:     usageStore,
		Chats:     chatStore,
		Vector:    vectorDB,
		Embedder:  embeddingService,
		LLM:       llmProvider,
		Runner:    taskRunner,
		WebClient: customHttpClient.GetClient(),
	})

	handlers.Init(ragService, tenantStore, sessionStore, usageStore, taskRunner)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		TaskStop:         stopTaskChannel,
		Group:            &taskWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
