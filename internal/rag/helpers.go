package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/metrics"
	"github.com/akolanti/intelliquery/internal/rag/analysis"
	"github.com/akolanti/intelliquery/internal/rag/ingest"
	"github.com/akolanti/intelliquery/internal/rag/llm"
	"github.com/akolanti/intelliquery/internal/rag/vectorDB"
)

func (s *service) executeExtractionStep(ctx context.Context, path string, kind docModel.DocumentKind) (docModel.ExtractedText, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("extraction", time.Since(start)) }()
	ReportStep(ctx, StepExtraction)

	return ingest.Extract(ctx, path, kind)
}

func (s *service) executeStoreStep(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics(label, time.Since(start)) }()
	ReportStep(ctx, StepStore)

	return fn(ctx)
}

func (s *service) executeDocumentEmbeddingStep(ctx context.Context, chunks []docModel.Chunk) ([][]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding_documents", time.Since(start)) }()
	ReportStep(ctx, StepEmbedding)

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, docModel.StageError(docModel.ErrEmbedding,
			fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(texts)))
	}
	return vectors, nil
}

// executeUpsertStep sends fixed size batches one after another.
func (s *service) executeUpsertStep(ctx context.Context, items []vectorDB.IndexItem) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_upsert", time.Since(start)) }()
	ReportStep(ctx, StepVectorDB)

	for from := 0; from < len(items); from += config.VectorUpsertBatch {
		to := min(from+config.VectorUpsertBatch, len(items))
		if err := s.index.Upsert(ctx, items[from:to]); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) executeQueryEmbeddingStep(ctx context.Context, query string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding_query", time.Since(start)) }()
	ReportStep(ctx, StepEmbedding)

	return s.embedder.EmbedQuery(ctx, query)
}

func (s *service) executeVectorSearchStep(ctx context.Context, vector []float32, topK int, filter *vectorDB.Filter) ([]docModel.RetrievedResult, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()
	ReportStep(ctx, StepVectorDB)

	return s.index.Query(ctx, vector, topK, filter)
}

// executeAnalysisStep never fails: generation and parse errors turn into the fallback result.
func (s *service) executeAnalysisStep(ctx context.Context, req docModel.QueryRequest, results []docModel.RetrievedResult) analysis.Result {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()
	ReportStep(ctx, StepGeneration)
	log := s.logger.Trace(ctx)

	prompt := analysis.BuildPrompt(req.Query, req.Domain, analysis.BuildContext(results))
	raw, err := s.llmProvider.Generate(ctx, prompt, llm.DefaultOptions())
	if err != nil {
		log.Warn("generation failed, using fallback rationale", "error", err)
		metrics.CaptureRationaleFallback("generation")
		return analysis.Fallback()
	}

	parsed, err := analysis.ParseResponse(raw)
	if err != nil {
		log.Warn("model response not parseable, using fallback rationale", "error", err)
		metrics.CaptureRationaleFallback("parse")
		return analysis.Fallback()
	}
	return parsed
}
