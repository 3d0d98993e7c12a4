package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/customHttpClient"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/rag/embedding"
	"github.com/akolanti/intelliquery/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger = logger_i.NewLogger("openai_embedding")

// OpenAI embeddings carry no task role, the query and document paths only differ in batching.
type client struct {
	api   openai.Client
	model string
}

func NewOpenAIEmbedder(modelName string, apikey string, opts ...option.RequestOption) (embedding.Embedder, error) {
	if apikey == "" {
		return nil, errors.New("openai embedding: missing api key")
	}
	base := []option.RequestOption{
		option.WithAPIKey(apikey),
		option.WithHTTPClient(customHttpClient.NewPooledClient(0)),
		option.WithMaxRetries(0),
	}
	logger.Info("OpenAI Embedding client created", "model", modelName)
	return &client{api: openai.NewClient(append(base, opts...)...), model: modelName}, nil
}

func (c *client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, 0, len(texts))
	for _, batch := range embedding.Batches(texts, config.EmbeddingBatchLimit) {
		vectors, err := c.embed(ctx, batch)
		if err != nil {
			return nil, err
		}
		results = append(results, vectors...)
	}
	return results, nil
}

func (c *client) embed(ctx context.Context, texts []string) ([][]float32, error) {
	log := logger.Trace(ctx)
	cleaned := make([]string, len(texts))
	for i, t := range texts {
		cleaned[i] = embedding.CleanText(t)
	}

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: cleaned},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		log.Error("Error getting Embeddings from OpenAI", "error", err)
		return nil, docModel.StageError(docModel.ErrEmbedding, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, docModel.StageError(docModel.ErrEmbedding, fmt.Errorf("asked for %d embeddings, got %d", len(texts), len(resp.Data)))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(texts) {
			return nil, docModel.StageError(docModel.ErrEmbedding, fmt.Errorf("embedding index %d out of range", d.Index))
		}
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vectors[d.Index] = vec
	}
	return vectors, nil
}
