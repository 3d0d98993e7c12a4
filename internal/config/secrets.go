package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// secrets never live in source, they come from the process environment (or .env in dev)
var (
	AuthToken      string
	NoAuthBypass   bool
	RedisPassword  string
	GeminiAPIKey   string
	OpenAIAPIKey   string
	QdrantAPIKey   string
	MongoURI       = MongoDefaultURI
	LogLevel       string
	EmbedProvider  = ProviderGemini
	LLMProvider    = ProviderGemini
	VectorIndex    = IndexQdrant
	DocumentStore  = StoreRedis
	QdrantHostAddr = QdrantHost
	QdrantPort     = QdrantGrpcPort
	RedisAddress   = RedisAddr
)

// LoadEnv reads .env files when present and refreshes the runtime settings.
// Missing files are fine, existing environment variables win.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}

	AuthToken = os.Getenv("API_AUTH_TOKEN")
	NoAuthBypass = getBool("NO_AUTH_BYPASS", false)
	RedisPassword = os.Getenv("REDIS_PASSWORD")
	GeminiAPIKey = firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"))
	OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	QdrantAPIKey = os.Getenv("QDRANT_API_KEY")
	MongoURI = getString("MONGODB_URI", MongoDefaultURI)
	LogLevel = os.Getenv("LOG_LEVEL")
	EmbedProvider = getString("EMBEDDING_PROVIDER", ProviderGemini)
	LLMProvider = getString("LLM_PROVIDER", ProviderGemini)
	VectorIndex = getString("VECTOR_INDEX", IndexQdrant)
	DocumentStore = getString("DOCUMENT_STORE", StoreRedis)
	QdrantHostAddr = getString("QDRANT_HOST", QdrantHost)
	QdrantPort = getInt("QDRANT_PORT", QdrantGrpcPort)
	RedisAddress = getString("REDIS_ADDR", RedisAddr)
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
