package googleEmbedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/customHttpClient"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/rag/embedding"
	"github.com/akolanti/intelliquery/pkg/logger_i"
	"google.golang.org/genai"
)

const (
	taskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	taskRetrievalQuery    = "RETRIEVAL_QUERY"
)

var logger = logger_i.NewLogger("google_embedding")

type client struct {
	genAi     *genai.Client
	model     string
	dimension int32
}

func NewGoogleEmbedder(ctx context.Context, modelName string, apikey string) (embedding.Embedder, error) {
	if apikey == "" {
		return nil, errors.New("google embedding: missing api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.NewPooledClient(0),
	})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		return nil, err
	}
	logger.Info("Google Embedding client created", "model", modelName)
	return &client{genAi: c, model: modelName, dimension: config.EmbeddingOutputDimensionality}, nil
}

func (c *client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{text}, taskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedDocuments sends the texts in API sized groups, one call per group, preserving order.
func (c *client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, 0, len(texts))
	for _, batch := range embedding.Batches(texts, config.EmbeddingBatchLimit) {
		vectors, err := c.embed(ctx, batch, taskRetrievalDocument)
		if err != nil {
			return nil, err
		}
		results = append(results, vectors...)
	}
	return results, nil
}

func (c *client) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	log := logger.Trace(ctx)
	log.Debug("embedding", "texts", len(texts), "task", taskType)

	result, err := c.genAi.Models.EmbedContent(ctx, c.model, getContent(texts), &genai.EmbedContentConfig{
		OutputDimensionality: &c.dimension,
		TaskType:             taskType,
	})
	if err != nil {
		log.Error("Error getting Embeddings from Google", "error", err)
		return nil, docModel.StageError(docModel.ErrEmbedding, err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		return nil, docModel.StageError(docModel.ErrEmbedding, fmt.Errorf("asked for %d embeddings, got %d", len(texts), got))
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, e := range result.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, docModel.StageError(docModel.ErrEmbedding, fmt.Errorf("empty embedding at position %d", i))
		}
		vectors[i] = e.Values
	}
	return vectors, nil
}

func getContent(texts []string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: embedding.CleanText(t)}},
		})
	}
	return contents
}
