package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "")
	t.Setenv("QDRANT_PORT", "not-a-port")
	t.Setenv("NO_AUTH_BYPASS", "")

	LoadEnv(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, ProviderGemini, EmbedProvider)
	assert.Equal(t, QdrantGrpcPort, QdrantPort)
	assert.False(t, NoAuthBypass)
}

func TestLoadEnv_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	err := os.WriteFile(path, []byte("LLM_PROVIDER=openai\nDOCUMENT_STORE=mongo\n"), 0600)
	assert.NoError(t, err)
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("DOCUMENT_STORE", "")
	os.Unsetenv("LLM_PROVIDER")
	os.Unsetenv("DOCUMENT_STORE")
	t.Cleanup(func() {
		os.Unsetenv("LLM_PROVIDER")
		os.Unsetenv("DOCUMENT_STORE")
	})

	LoadEnv(path)

	assert.Equal(t, ProviderOpenAI, LLMProvider)
	assert.Equal(t, StoreMongo, DocumentStore)
}
