package openaiEmbedding

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, handler func(body map[string]any) string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, handler(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEmbedDocuments_OrderAndDimension(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, func(body map[string]any) string {
		assert.EqualValues(t, 768, body["dimensions"])
		assert.Equal(t, []any{"first text", "second text"}, body["input"])
		//answer out of order, the client must place vectors by index
		return `{"object":"list","model":"m","data":[
			{"object":"embedding","index":1,"embedding":[0.3,0.4]},
			{"object":"embedding","index":0,"embedding":[0.1,0.2]}],
			"usage":{"prompt_tokens":2,"total_tokens":2}}`
	})

	e, err := NewOpenAIEmbedder("text-embedding-3-small", "test-key", option.WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)

	vectors, err := e.EmbedDocuments(context.Background(), []string{"first   text", "second\ntext"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.InDelta(t, 0.1, vectors[0][0], 1e-6)
	assert.InDelta(t, 0.3, vectors[1][0], 1e-6)
}

func TestEmbedQuery_ProviderError(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, func(map[string]any) string {
		return `{"error":{"message":"boom","type":"server_error"}}`
	})

	e, err := NewOpenAIEmbedder("text-embedding-3-small", "test-key", option.WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)

	_, err = e.EmbedQuery(context.Background(), "what is covered")
	assert.ErrorIs(t, err, docModel.ErrEmbedding)
}

func TestNewOpenAIEmbedder_MissingKey(t *testing.T) {
	_, err := NewOpenAIEmbedder("m", "")
	assert.Error(t, err)
}
