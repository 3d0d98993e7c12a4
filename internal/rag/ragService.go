package rag

import (
	"context"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/rag/embedding"
	"github.com/akolanti/intelliquery/internal/rag/ingest"
	"github.com/akolanti/intelliquery/internal/rag/llm"
	"github.com/akolanti/intelliquery/internal/rag/vectorDB"
	"github.com/akolanti/intelliquery/pkg/logger_i"
)

/*
OPAQUE INTERFACE
---------------------------------------------------------
Service is the only thing the worker, the handlers, the CLI and the MCP tools see.
service holds the clients (index, store, embedder, llm). It is lowercase so nothing
outside this package can reach around the pipelines and talk to a client directly.
Every client is passed in through NewService, tests hand in mocks the same way.
*/

type Service interface {
	// IngestDocument runs extract -> store metadata -> chunk -> embed -> upsert -> store chunks -> commit.
	// On failure the partial document is cleaned up and the original error is returned.
	IngestDocument(ctx context.Context, req docModel.IngestRequest) (docModel.Document, error)
	Query(ctx context.Context, req docModel.QueryRequest) (docModel.QueryResponse, error)

	GetDocument(ctx context.Context, id string) (docModel.Document, error)
	GetDocumentChunks(ctx context.Context, id string) ([]docModel.Chunk, error)
	// DeleteDocument removes vectors, chunks and the record. It is not atomic across the two stores.
	DeleteDocument(ctx context.Context, id string) error

	Setup(ctx context.Context) error
}

type service struct {
	index       vectorDB.Index
	store       docModel.DocumentStore
	embedder    embedding.Embedder
	llmProvider llm.Provider
	splitter    *ingest.Splitter
	logger      *logger_i.Logger
}

func NewService(index vectorDB.Index, store docModel.DocumentStore, em embedding.Embedder, llmProvider llm.Provider, splitter *ingest.Splitter) Service {
	if splitter == nil {
		splitter = ingest.NewSplitter()
	}
	return &service{
		index:       index,
		store:       store,
		embedder:    em,
		llmProvider: llmProvider,
		splitter:    splitter,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

// Setup prepares the vector collection and its payload indexes.
func (s *service) Setup(ctx context.Context) error {
	return s.index.EnsureCollection(ctx)
}

func (s *service) GetDocument(ctx context.Context, id string) (docModel.Document, error) {
	return s.store.GetDocument(ctx, id)
}

// GetDocumentChunks returns ErrNotFound for unknown documents rather than an empty list.
func (s *service) GetDocumentChunks(ctx context.Context, id string) ([]docModel.Chunk, error) {
	if _, err := s.store.GetDocument(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetChunks(ctx, id)
}

func (s *service) DeleteDocument(ctx context.Context, id string) error {
	log := s.logger.Trace(ctx).With("documentId", id)
	if err := s.index.DeleteByDocument(ctx, id); err != nil {
		log.Error("could not delete vectors", "error", err)
		return err
	}
	if err := s.store.DeleteDocument(ctx, id); err != nil {
		log.Error("vectors deleted but document record remains", "error", err)
		return err
	}
	log.Info("Document deleted")
	return nil
}
