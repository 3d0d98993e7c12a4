package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internals in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	ServiceName    = "Intelligent Query-Retrieval System"
	ServiceVersion = "1.0.0"

	//chunking
	ChunkSize    = 1000
	ChunkOverlap = 200

	//embeddings - gemini-embedding-001 and text-embedding-3-small both accept 768
	EmbeddingOutputDimensionality int32 = 768
	EmbeddingBatchLimit                 = 100
	EmbeddingMaxInputChars              = 30000

	//vector index
	VectorCollectionName = "document-embeddings"
	VectorUpsertBatch    = 100
	VectorContentLimit   = 1000 //payload copy of content is truncated

	//query
	DefaultMaxResults = 5
	MinMaxResults     = 1
	MaxMaxResults     = 20

	//generation
	GenerationTemperature float32 = 0.1
	GenerationMaxTokens           = 8192
	GenerationCandidates          = 1

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//per job budgets
	IngestJobTimeout = 5 * time.Minute
	QueryJobTimeout  = 90 * time.Second

	//serverTimeouts
	ReadTimeout            = 30 * time.Second
	WriteTimeout           = 120 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"
	MaxUploadSize    = 32 << 20 //32mb

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost     = "localhost"
	QdrantGrpcPort = 6334
	QdrantUseTLS   = false //set for https
	QdrantPoolSize = 1     //2-5 is preferred for prod according to documentation

	//providers
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	GeminiModelName      = "gemini-2.5-flash"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIChatModel      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisDocumentStore = 1

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour
	QueryLogCap      = 10000

	//mongo
	MongoDefaultURI     = "mongodb://localhost:27017"
	MongoDatabase       = "document_query_system"
	MongoConnectTimeout = 10 * time.Second
	DocumentsCollection = "documents"
	ChunksCollection    = "chunks"
	QueriesCollection   = "queries"

	//store selection
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
	IndexQdrant = "qdrant"
	IndexMemory = "memory"
)
