package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/metrics"
	"github.com/akolanti/intelliquery/internal/rag/analysis"
	"github.com/akolanti/intelliquery/internal/rag/vectorDB"
)

const queryLogTimeout = 5 * time.Second

func (s *service) Query(ctx context.Context, req docModel.QueryRequest) (docModel.QueryResponse, error) {
	start := time.Now()
	if err := NormalizeQuery(&req); err != nil {
		return docModel.QueryResponse{}, err
	}
	log := s.logger.Trace(ctx)
	log.Info("Processing query", "domain", req.Domain, "documents", len(req.DocumentIDs), "maxResults", req.MaxResults)

	vector, err := s.executeQueryEmbeddingStep(ctx, req.Query)
	if err != nil {
		return docModel.QueryResponse{}, err
	}

	results, err := s.executeVectorSearchStep(ctx, vector, req.MaxResults, BuildFilter(req))
	if err != nil {
		return docModel.QueryResponse{}, err
	}
	if results == nil {
		results = []docModel.RetrievedResult{}
	}

	var outcome analysis.Result
	if req.IncludeExplanation && len(results) > 0 {
		outcome = s.executeAnalysisStep(ctx, req, results)
	} else {
		outcome = analysis.RetrievalOnly()
	}

	resp := docModel.QueryResponse{
		Query:                    req.Query,
		Answer:                   outcome.Answer,
		DecisionRationale:        outcome.Rationale,
		AdditionalConsiderations: outcome.AdditionalConsiderations,
		RetrievedChunks:          results,
		ProcessingTime:           time.Since(start).Seconds(),
		Timestamp:                time.Now().UTC(),
	}
	s.logQuery(ctx, req, resp)
	metrics.CaptureExecutionMetrics("query", time.Since(start))
	return resp, nil
}

// NormalizeQuery fills defaults and rejects requests the pipeline cannot serve.
func NormalizeQuery(req *docModel.QueryRequest) error {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return fmt.Errorf("%w: query is required", docModel.ErrInvalidRequest)
	}
	if req.MaxResults == 0 {
		req.MaxResults = config.DefaultMaxResults
	}
	if req.MaxResults < config.MinMaxResults || req.MaxResults > config.MaxMaxResults {
		return fmt.Errorf("%w: max_results must be between %d and %d, got %d",
			docModel.ErrInvalidRequest, config.MinMaxResults, config.MaxMaxResults, req.MaxResults)
	}
	if req.Domain != "" && !req.Domain.Valid() {
		return fmt.Errorf("%w: unknown domain %q", docModel.ErrInvalidRequest, req.Domain)
	}
	return nil
}

// BuildFilter returns nil when there is nothing to filter on, never an empty filter.
func BuildFilter(req docModel.QueryRequest) *vectorDB.Filter {
	ids := make([]string, 0, len(req.DocumentIDs))
	for _, id := range req.DocumentIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if req.Domain == "" && len(ids) == 0 {
		return nil
	}
	f := &vectorDB.Filter{Domain: req.Domain}
	if len(ids) > 0 {
		f.DocumentIDs = ids
	}
	return f
}

func (s *service) logQuery(ctx context.Context, req docModel.QueryRequest, resp docModel.QueryResponse) {
	ReportStep(ctx, StepStore)
	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), queryLogTimeout)
	defer cancel()
	err := s.store.LogQuery(logCtx, docModel.QueryLogEntry{
		Query:          req.Query,
		Domain:         req.Domain,
		NumResults:     len(resp.RetrievedChunks),
		ProcessingTime: resp.ProcessingTime,
		Timestamp:      resp.Timestamp,
	})
	if err != nil {
		s.logger.Trace(ctx).Warn("could not log query", "error", err)
	}
}
