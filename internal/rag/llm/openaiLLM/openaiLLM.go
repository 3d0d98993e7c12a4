package openaiLLM

import (
	"context"
	"errors"

	"github.com/akolanti/intelliquery/internal/customHttpClient"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/rag/llm"
	"github.com/akolanti/intelliquery/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger = logger_i.NewLogger("llm_openai")

type llmClient struct {
	api   openai.Client
	model string
}

func NewOpenAIClient(modelName string, apikey string, opts ...option.RequestOption) (llm.Provider, error) {
	if apikey == "" {
		return nil, errors.New("openai: missing api key")
	}
	base := []option.RequestOption{
		option.WithAPIKey(apikey),
		option.WithHTTPClient(customHttpClient.NewPooledClient(0)),
		option.WithMaxRetries(0),
	}
	logger.Info("OpenAI client created", "model", modelName)
	return &llmClient{api: openai.NewClient(append(base, opts...)...), model: modelName}, nil
}

func (c *llmClient) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:               openai.ChatModel(c.model),
		Temperature:         openai.Float(float64(opts.Temperature)),
		MaxCompletionTokens: openai.Int(int64(opts.MaxOutputTokens)),
		N:                   openai.Int(int64(opts.CandidateCount)),
	})
	if err != nil {
		logger.Trace(ctx).Error("OpenAI generation failed", "error", err)
		return "", docModel.StageError(docModel.ErrGeneration, err)
	}
	if len(completion.Choices) == 0 {
		return "", docModel.StageError(docModel.ErrGeneration, errors.New("no choices returned"))
	}
	return completion.Choices[0].Message.Content, nil
}
