package qdrantDB

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/qdrant/go-client/qdrant"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/internal/metrics"
	"github.com/chatlet/chatlet/internal/rag/vectorDB"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

var (
	logger         *logger_i.Logger
	qdrantInstance *qdrant.Client
	once           sync.Once
	dimension      = uint64(config.EmbeddingOutputDimensionality)
	collectionName = config.SectionCollectionName
)

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(ctx)
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{QObj: qdrantInstance}
}

func newClient(ctx context.Context) *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate qdrant client", "error", err)
		return nil
	}

	if err := createCollection(ctx, client); err != nil {
		logger.Error("could not create collection", "collectionName", collectionName, "error", err)
		return nil
	}
	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
}

func (db *ClientHolder) EnsureCollection(ctx context.Context) error {
	return createCollection(ctx, db.QObj)
}

// Search runs tenant-filtered cosine similarity over document sections. The
// tenant condition lives inside the Qdrant query so a cross-tenant point can
// never score its way into the results.
func (db *ClientHolder) Search(ctx context.Context, tenantId string, vector []float32, threshold float32, topK int) ([]vectorDB.Match, error) {
	defer metrics.TimeDependency("vector_search")()
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		ScoreThreshold: qdrant.PtrOf(threshold),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("tenant_id", tenantId),
			},
		},
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant", "error", err)
		return nil, err
	}

	matches := make([]vectorDB.Match, 0, len(result))
	for _, hit := range result {
		matches = append(matches, vectorDB.Match{
			Content:    hit.Payload["content"].GetStringValue(),
			DocumentId: hit.Payload["document_id"].GetIntegerValue(),
			TenantId:   hit.Payload["tenant_id"].GetStringValue(),
			Score:      hit.Score,
		})
	}

	loggr.Debug("vector search done", "matches", len(matches))
	return matches, nil
}

func (db *ClientHolder) UpsertSections(ctx context.Context, sections []commonModels.DocumentSection) error {
	if len(sections) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(sections))
	for i, section := range sections {
		if len(section.Embedding) != int(dimension) {
			return fmt.Errorf("section %s has %d dimensions, collection expects %d",
				section.Id, len(section.Embedding), dimension)
		}
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(section.Id),
			Vectors: qdrant.NewVectors(section.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":     section.Content,
				"document_id": section.DocumentId,
				"tenant_id":   section.TenantId,
				"position":    section.Position,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func createCollection(ctx context.Context, client *qdrant.Client) error {
	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
