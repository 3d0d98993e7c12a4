package rag

import "context"

// Step is the pipeline stage a request has reached.
type Step string

const (
	StepExtraction Step = "extraction"
	StepEmbedding  Step = "embedding"
	StepVectorDB   Step = "vector_db"
	StepGeneration Step = "generation"
	StepStore      Step = "store"
)

type stepReporterKey struct{}

// WithStepReporter returns a context whose pipelines call fn as they enter each stage.
// fn runs on the calling goroutine.
func WithStepReporter(ctx context.Context, fn func(Step)) context.Context {
	return context.WithValue(ctx, stepReporterKey{}, fn)
}

// ReportStep hands step to the reporter attached to ctx, if there is one.
func ReportStep(ctx context.Context, step Step) {
	if fn, ok := ctx.Value(stepReporterKey{}).(func(Step)); ok && fn != nil {
		fn(step)
	}
}
