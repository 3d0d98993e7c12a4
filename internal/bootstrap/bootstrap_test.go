package bootstrap

import (
	"context"
	"testing"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/data/store"
	"github.com/akolanti/intelliquery/internal/rag/vectorDB/memoryDB"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSelection(t *testing.T, embed, gen, index, docs string) {
	t.Helper()
	prev := []string{config.EmbedProvider, config.LLMProvider, config.VectorIndex, config.DocumentStore, config.OpenAIAPIKey}
	config.EmbedProvider, config.LLMProvider, config.VectorIndex, config.DocumentStore = embed, gen, index, docs
	config.OpenAIAPIKey = "sk-test"
	t.Cleanup(func() {
		config.EmbedProvider, config.LLMProvider, config.VectorIndex, config.DocumentStore, config.OpenAIAPIKey =
			prev[0], prev[1], prev[2], prev[3], prev[4]
	})
}

func TestNew_LocalSelection(t *testing.T) {
	withSelection(t, config.ProviderOpenAI, config.ProviderOpenAI, config.IndexMemory, config.StoreMemory)

	clients, err := New(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &memoryDB.Index{}, clients.Index)
	assert.IsType(t, &store.InMemoryDocumentStore{}, clients.Store)
	assert.NotNil(t, clients.Embedder)
	assert.NotNil(t, clients.LLM)
	assert.NotNil(t, clients.RagService())
}

func TestNew_UnknownSelection(t *testing.T) {
	tests := []struct {
		name                    string
		embed, gen, index, docs string
		wantErr                 string
	}{
		{"embedding", "cohere", config.ProviderOpenAI, config.IndexMemory, config.StoreMemory, "EMBEDDING_PROVIDER"},
		{"llm", config.ProviderOpenAI, "claude", config.IndexMemory, config.StoreMemory, "LLM_PROVIDER"},
		{"index", config.ProviderOpenAI, config.ProviderOpenAI, "pinecone", config.StoreMemory, "VECTOR_INDEX"},
		{"store", config.ProviderOpenAI, config.ProviderOpenAI, config.IndexMemory, "postgres", "DOCUMENT_STORE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withSelection(t, tt.embed, tt.gen, tt.index, tt.docs)
			_, err := New(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewEmbedder_MissingKey(t *testing.T) {
	withSelection(t, config.ProviderOpenAI, config.ProviderOpenAI, config.IndexMemory, config.StoreMemory)
	config.OpenAIAPIKey = ""
	_, err := NewEmbedder(context.Background())
	assert.Error(t, err)
}
