package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/metrics"
	"github.com/akolanti/intelliquery/internal/rag/ingest"
	"github.com/akolanti/intelliquery/internal/rag/vectorDB"
)

const compensationTimeout = 30 * time.Second

func (s *service) IngestDocument(ctx context.Context, req docModel.IngestRequest) (docModel.Document, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	kind, _, err := docModel.KindFromFilename(req.Filename)
	if err != nil {
		metrics.CaptureIngestionOutcome("rejected")
		return docModel.Document{}, err
	}
	if !req.Domain.Valid() {
		metrics.CaptureIngestionOutcome("rejected")
		return docModel.Document{}, fmt.Errorf("%w: unknown domain %q", docModel.ErrInvalidRequest, req.Domain)
	}

	doc := docModel.Document{
		ID:         ingest.NewDocumentID(req.Filename, start),
		Filename:   req.Filename,
		Kind:       kind,
		Domain:     req.Domain,
		UploadedAt: start.UTC(),
		SizeBytes:  req.SizeBytes,
	}
	log := s.logger.Trace(ctx).With("documentId", doc.ID, "filename", doc.Filename)
	log.Info("Ingesting document", "kind", kind, "domain", doc.Domain)

	chunkCount, err := s.runIngestion(ctx, req.Path, &doc)
	if err != nil {
		log.Error("Ingestion failed, cleaning up", "error", err)
		s.compensate(ctx, doc.ID)
		metrics.CaptureIngestionOutcome("failed")
		return docModel.Document{}, err
	}

	doc.Processed = true
	metrics.CaptureIngestionOutcome("committed")
	log.Info("Document committed", "chunks", chunkCount, "elapsed", time.Since(start))
	return doc, nil
}

// runIngestion walks the document from extracted to committed. doc is updated in place.
func (s *service) runIngestion(ctx context.Context, path string, doc *docModel.Document) (int, error) {
	extracted, err := s.executeExtractionStep(ctx, path, doc.Kind)
	if err != nil {
		return 0, err
	}
	doc.PageCount = extracted.PageCount

	if err = s.executeStoreStep(ctx, "store_document", func(ctx context.Context) error {
		return s.store.SaveDocument(ctx, *doc)
	}); err != nil {
		return 0, err
	}

	chunks := ingest.PrepareChunks(s.splitter, doc.ID, extracted.Text, extracted.Metadata)
	if len(chunks) == 0 {
		return 0, docModel.StageError(docModel.ErrExtraction, fmt.Errorf("%s contains no extractable text", doc.Filename))
	}

	vectors, err := s.executeDocumentEmbeddingStep(ctx, chunks)
	if err != nil {
		return 0, err
	}

	items := make([]vectorDB.IndexItem, len(chunks))
	for i := range chunks {
		chunks[i].EmbeddingID = chunks[i].ID
		items[i] = vectorDB.IndexItem{
			Chunk:    chunks[i],
			Vector:   vectors[i],
			Domain:   doc.Domain,
			Filename: doc.Filename,
		}
	}
	if err = s.executeUpsertStep(ctx, items); err != nil {
		return 0, err
	}

	if err = s.executeStoreStep(ctx, "store_chunks", func(ctx context.Context) error {
		return s.store.SaveChunks(ctx, chunks)
	}); err != nil {
		return 0, err
	}

	if err = s.executeStoreStep(ctx, "mark_processed", func(ctx context.Context) error {
		return s.store.MarkProcessed(ctx, doc.ID)
	}); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// compensate removes whatever part of the document made it into the index or the store.
// It runs even when the caller already gave up, and it never replaces the original error.
func (s *service) compensate(ctx context.Context, documentID string) {
	log := s.logger.Trace(ctx).With("documentId", documentID)
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	metrics.CaptureCompensation("started")
	if err := s.index.DeleteByDocument(cleanupCtx, documentID); err != nil {
		metrics.CaptureCompensation("index_failed")
		log.Error("compensation: orphaned vectors left in index", "collection", config.VectorCollectionName, "error", err)
	}
	if err := s.store.DeleteDocument(cleanupCtx, documentID); err != nil {
		metrics.CaptureCompensation("store_failed")
		log.Error("compensation: orphaned document record left in store", "error", err)
	}
}
