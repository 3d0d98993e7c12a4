package gemini

import (
	"context"
	"errors"

	"github.com/akolanti/intelliquery/internal/customHttpClient"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/rag/llm"
	"github.com/akolanti/intelliquery/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger = logger_i.NewLogger("llm_gemini")

func NewGeminiClient(ctx context.Context, modelName string, apikey string) (llm.Provider, error) {
	if apikey == "" {
		return nil, errors.New("gemini: missing api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.NewPooledClient(0),
	})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return nil, err
	}
	logger.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName}, nil
}

func (c *llmClient) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	log := logger.Trace(ctx)

	contentConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(opts.Temperature),
		MaxOutputTokens: int32(opts.MaxOutputTokens),
		CandidateCount:  int32(opts.CandidateCount),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), contentConfig)
	if err != nil {
		log.Error("Gemini generation failed", "error", err)
		return "", docModel.StageError(docModel.ErrGeneration, err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", docModel.StageError(docModel.ErrGeneration, errors.New("no candidates returned"))
	}
	return result.Text(), nil
}
