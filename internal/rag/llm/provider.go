package llm

import (
	"context"

	"github.com/akolanti/intelliquery/internal/config"
)

type GenerateOptions struct {
	Temperature     float32
	MaxOutputTokens int
	CandidateCount  int
}

// DefaultOptions is the low temperature, single candidate setting used for analysis.
func DefaultOptions() GenerateOptions {
	return GenerateOptions{
		Temperature:     config.GenerationTemperature,
		MaxOutputTokens: config.GenerationMaxTokens,
		CandidateCount:  config.GenerationCandidates,
	}
}

type Provider interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
