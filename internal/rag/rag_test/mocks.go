package rag_test

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/akolanti/intelliquery/internal/data/store"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/rag/llm"
	"github.com/akolanti/intelliquery/internal/rag/vectorDB"
)

// MockIndex implements vectorDB.Index and records what it was asked to do
type MockIndex struct {
	OnEnsureCollection func(ctx context.Context) error
	OnUpsert           func(ctx context.Context, items []vectorDB.IndexItem) error
	OnQuery            func(ctx context.Context, vector []float32, topK int, filter *vectorDB.Filter) ([]docModel.RetrievedResult, error)
	OnDeleteByDocument func(ctx context.Context, documentID string) error

	mu          sync.Mutex
	UpsertCalls [][]vectorDB.IndexItem
	QueryFilter *vectorDB.Filter
	QueryTopK   int
	Deleted     []string
}

func (m *MockIndex) EnsureCollection(ctx context.Context) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx)
	}
	return nil
}

func (m *MockIndex) Upsert(ctx context.Context, items []vectorDB.IndexItem) error {
	m.mu.Lock()
	m.UpsertCalls = append(m.UpsertCalls, items)
	m.mu.Unlock()
	if m.OnUpsert != nil {
		return m.OnUpsert(ctx, items)
	}
	return nil
}

func (m *MockIndex) Query(ctx context.Context, vector []float32, topK int, filter *vectorDB.Filter) ([]docModel.RetrievedResult, error) {
	m.mu.Lock()
	m.QueryFilter = filter
	m.QueryTopK = topK
	m.mu.Unlock()
	if m.OnQuery != nil {
		return m.OnQuery(ctx, vector, topK, filter)
	}
	return []docModel.RetrievedResult{
		{ChunkID: "c1", DocumentID: "d1", Content: "default context", Score: 0.9, Metadata: map[string]any{"filename": "policy.pdf"}},
	}, nil
}

func (m *MockIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	m.Deleted = append(m.Deleted, documentID)
	m.mu.Unlock()
	if m.OnDeleteByDocument != nil {
		return m.OnDeleteByDocument(ctx, documentID)
	}
	return nil
}

// MockStore falls through to the in-memory store unless a hook is set
type MockStore struct {
	*store.InMemoryDocumentStore
	OnSaveDocument   func(ctx context.Context, doc docModel.Document) error
	OnSaveChunks     func(ctx context.Context, chunks []docModel.Chunk) error
	OnDeleteDocument func(ctx context.Context, id string) error
	OnLogQuery       func(ctx context.Context, entry docModel.QueryLogEntry) error
}

func NewMockStore() *MockStore {
	return &MockStore{InMemoryDocumentStore: store.InitInMemoryDocumentStore()}
}

func (m *MockStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	if m.OnSaveDocument != nil {
		return m.OnSaveDocument(ctx, doc)
	}
	return m.InMemoryDocumentStore.SaveDocument(ctx, doc)
}

func (m *MockStore) SaveChunks(ctx context.Context, chunks []docModel.Chunk) error {
	if m.OnSaveChunks != nil {
		return m.OnSaveChunks(ctx, chunks)
	}
	return m.InMemoryDocumentStore.SaveChunks(ctx, chunks)
}

func (m *MockStore) DeleteDocument(ctx context.Context, id string) error {
	if m.OnDeleteDocument != nil {
		return m.OnDeleteDocument(ctx, id)
	}
	return m.InMemoryDocumentStore.DeleteDocument(ctx, id)
}

func (m *MockStore) LogQuery(ctx context.Context, entry docModel.QueryLogEntry) error {
	if m.OnLogQuery != nil {
		return m.OnLogQuery(ctx, entry)
	}
	return m.InMemoryDocumentStore.LogQuery(ctx, entry)
}

// MockEmbedder returns small deterministic vectors derived from the text
type MockEmbedder struct {
	OnEmbedDocuments func(ctx context.Context, texts []string) ([][]float32, error)
	OnEmbedQuery     func(ctx context.Context, text string) ([]float32, error)

	DocumentCalls int
}

func (m *MockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	m.DocumentCalls++
	if m.OnEmbedDocuments != nil {
		return m.OnEmbedDocuments(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = hashVector(t)
	}
	return out, nil
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if m.OnEmbedQuery != nil {
		return m.OnEmbedQuery(ctx, text)
	}
	return hashVector(text), nil
}

func hashVector(text string) []float32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	sum := h.Sum32()
	return []float32{float32(sum&0xff) + 1, float32((sum>>8)&0xff) + 1, float32((sum>>16)&0xff) + 1}
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error)

	Calls      int
	LastPrompt string
	LastOpts   llm.GenerateOptions
}

func (m *MockLLM) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	m.Calls++
	m.LastPrompt = prompt
	m.LastOpts = opts
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt, opts)
	}
	return `{"answer": "mocked answer", "reasoning": "because", "confidence_score": 0.8,
		"supporting_evidence": ["clause 1"], "conditions": [], "limitations": []}`, nil
}
