package store

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
)

type InMemoryDocumentStore struct {
	mu       sync.RWMutex
	docs     map[string]docModel.Document
	chunks   map[string][]docModel.Chunk
	queryLog []docModel.QueryLogEntry
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docs:   make(map[string]docModel.Document),
		chunks: make(map[string][]docModel.Chunk),
	}
}

func (s *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	return nil
}

func (s *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return doc, fmt.Errorf("document %s: %w", id, docModel.ErrNotFound)
	}
	return doc, nil
}

func (s *InMemoryDocumentStore) MarkProcessed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, docModel.ErrNotFound)
	}
	doc.Processed = true
	s.docs[id] = doc
	return nil
}

func (s *InMemoryDocumentStore) SaveChunks(ctx context.Context, chunks []docModel.Chunk) error {
	grouped := make(map[string][]docModel.Chunk)
	for _, c := range chunks {
		c.Metadata = maps.Clone(c.Metadata)
		grouped[c.DocumentID] = append(grouped[c.DocumentID], c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for docID, list := range grouped {
		s.chunks[docID] = list
	}
	return nil
}

func (s *InMemoryDocumentStore) GetChunks(ctx context.Context, documentID string) ([]docModel.Chunk, error) {
	s.mu.RLock()
	out := append([]docModel.Chunk(nil), s.chunks[documentID]...)
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	if out == nil {
		out = []docModel.Chunk{}
	}
	return out, nil
}

func (s *InMemoryDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	delete(s.chunks, id)
	return nil
}

func (s *InMemoryDocumentStore) LogQuery(ctx context.Context, entry docModel.QueryLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryLog = append(s.queryLog, entry)
	if over := len(s.queryLog) - config.QueryLogCap; over > 0 {
		s.queryLog = append([]docModel.QueryLogEntry(nil), s.queryLog[over:]...)
	}
	return nil
}

func (s *InMemoryDocumentStore) RecentQueries(ctx context.Context, n int64) ([]docModel.QueryLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := len(s.queryLog) - int(n)
	if start < 0 {
		start = 0
	}
	return append([]docModel.QueryLogEntry(nil), s.queryLog[start:]...), nil
}
