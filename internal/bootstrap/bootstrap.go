// Package bootstrap builds the external clients once per process from config and
// hands them to rag.NewService. Both binaries go through here.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/data/mongoStore"
	"github.com/akolanti/intelliquery/internal/data/store"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/domain/jobModel"
	"github.com/akolanti/intelliquery/internal/rag"
	"github.com/akolanti/intelliquery/internal/rag/embedding"
	"github.com/akolanti/intelliquery/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/intelliquery/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/intelliquery/internal/rag/llm"
	"github.com/akolanti/intelliquery/internal/rag/llm/gemini"
	"github.com/akolanti/intelliquery/internal/rag/llm/openaiLLM"
	"github.com/akolanti/intelliquery/internal/rag/vectorDB"
	"github.com/akolanti/intelliquery/internal/rag/vectorDB/memoryDB"
	"github.com/akolanti/intelliquery/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/intelliquery/pkg/logger_i"
)

// Clients are closed when the ctx passed to New is cancelled.
type Clients struct {
	Index    vectorDB.Index
	Store    docModel.DocumentStore
	Embedder embedding.Embedder
	LLM      llm.Provider
}

func New(ctx context.Context) (*Clients, error) {
	logger := logger_i.NewLogger("bootstrap")

	embedder, err := NewEmbedder(ctx)
	if err != nil {
		return nil, err
	}
	provider, err := NewLLM(ctx)
	if err != nil {
		return nil, err
	}
	index, err := NewIndex(ctx)
	if err != nil {
		return nil, err
	}
	docStore, err := NewDocumentStore(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info("Clients ready",
		"embedding", config.EmbedProvider,
		"llm", config.LLMProvider,
		"index", config.VectorIndex,
		"store", config.DocumentStore)
	return &Clients{Index: index, Store: docStore, Embedder: embedder, LLM: provider}, nil
}

func (c *Clients) RagService() rag.Service {
	return rag.NewService(c.Index, c.Store, c.Embedder, c.LLM, nil)
}

func NewEmbedder(ctx context.Context) (embedding.Embedder, error) {
	switch config.EmbedProvider {
	case config.ProviderGemini:
		return googleEmbedding.NewGoogleEmbedder(ctx, config.GoogleEmbeddingModel, config.GeminiAPIKey)
	case config.ProviderOpenAI:
		return openaiEmbedding.NewOpenAIEmbedder(config.OpenAIEmbeddingModel, config.OpenAIAPIKey)
	default:
		return nil, fmt.Errorf("unknown EMBEDDING_PROVIDER %q", config.EmbedProvider)
	}
}

func NewLLM(ctx context.Context) (llm.Provider, error) {
	switch config.LLMProvider {
	case config.ProviderGemini:
		return gemini.NewGeminiClient(ctx, config.GeminiModelName, config.GeminiAPIKey)
	case config.ProviderOpenAI:
		return openaiLLM.NewOpenAIClient(config.OpenAIChatModel, config.OpenAIAPIKey)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", config.LLMProvider)
	}
}

func NewIndex(ctx context.Context) (vectorDB.Index, error) {
	switch config.VectorIndex {
	case config.IndexQdrant:
		return qdrantDB.NewQdrantIndex(ctx, qdrantDB.DefaultConfig())
	case config.IndexMemory:
		return memoryDB.NewIndex(int(config.EmbeddingOutputDimensionality)), nil
	default:
		return nil, fmt.Errorf("unknown VECTOR_INDEX %q", config.VectorIndex)
	}
}

// NewDocumentStore never falls back, a silent switch to memory would lose documents on restart.
func NewDocumentStore(ctx context.Context) (docModel.DocumentStore, error) {
	switch config.DocumentStore {
	case config.StoreRedis:
		return store.GetRedisDocumentStore(ctx)
	case config.StoreMongo:
		return mongoStore.Connect(ctx, config.MongoURI, config.MongoDatabase)
	case config.StoreMemory:
		return store.InitInMemoryDocumentStore(), nil
	default:
		return nil, fmt.Errorf("unknown DOCUMENT_STORE %q", config.DocumentStore)
	}
}

// NewJobStore prefers Redis and drops to the in-memory store when allowed by config.
func NewJobStore(ctx context.Context) (jobModel.JobStore, error) {
	redisJobs, err := store.GetRedisJobStore(ctx)
	if err == nil {
		return redisJobs, nil
	}
	if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
		return nil, err
	}
	logger_i.NewLogger("bootstrap").Warn("Redis job store offline, using in-memory job store", "error", err)
	return store.InitInMemoryJobStore(), nil
}
