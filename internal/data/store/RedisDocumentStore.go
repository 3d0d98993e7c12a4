package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/data/redisStore"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/pkg/logger_i"
)

const queryLogKey = "query_log"

// RedisDocumentStore keeps one JSON value per document, one list per document for its
// chunks and a capped list for the query log.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) (*RedisDocumentStore, error) {
	s, err := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if err != nil {
		return nil, err
	}
	return NewRedisDocumentStore(s), nil
}

func NewRedisDocumentStore(s *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  s,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func docKey(id string) string {
	return "doc:" + id
}

func chunksKey(id string) string {
	return "doc:" + id + ":chunks"
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return docModel.StageError(docModel.ErrStore, err)
	}
	if err = s.store.Set(ctx, docKey(doc.ID), data, 0); err != nil {
		s.logger.Trace(ctx).Error("could not save document", "documentId", doc.ID, "error", err)
		return docModel.StageError(docModel.ErrStore, err)
	}
	return nil
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, error) {
	var doc docModel.Document
	val, err := s.store.Get(ctx, docKey(id))
	if s.store.IsNil(err) {
		return doc, fmt.Errorf("document %s: %w", id, docModel.ErrNotFound)
	} else if err != nil {
		return doc, docModel.StageError(docModel.ErrStore, err)
	}
	if err = json.Unmarshal([]byte(val), &doc); err != nil {
		return doc, docModel.StageError(docModel.ErrStore, err)
	}
	return doc, nil
}

func (s *RedisDocumentStore) MarkProcessed(ctx context.Context, id string) error {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	doc.Processed = true
	return s.SaveDocument(ctx, doc)
}

func (s *RedisDocumentStore) SaveChunks(ctx context.Context, chunks []docModel.Chunk) error {
	byDoc := make(map[string][]interface{})
	order := make([]string, 0)
	for _, c := range chunks {
		data, err := json.Marshal(c)
		if err != nil {
			return docModel.StageError(docModel.ErrStore, err)
		}
		if _, seen := byDoc[c.DocumentID]; !seen {
			order = append(order, c.DocumentID)
		}
		byDoc[c.DocumentID] = append(byDoc[c.DocumentID], data)
	}

	for _, docID := range order {
		if err := s.store.ListReplace(ctx, chunksKey(docID), byDoc[docID]...); err != nil {
			s.logger.Trace(ctx).Error("could not save chunks", "documentId", docID, "error", err)
			return docModel.StageError(docModel.ErrStore, err)
		}
	}
	return nil
}

func (s *RedisDocumentStore) GetChunks(ctx context.Context, documentID string) ([]docModel.Chunk, error) {
	raw, err := s.store.ListGetAll(ctx, chunksKey(documentID))
	if err != nil {
		return nil, docModel.StageError(docModel.ErrStore, err)
	}
	chunks := make([]docModel.Chunk, 0, len(raw))
	for _, r := range raw {
		var c docModel.Chunk
		if err = json.Unmarshal([]byte(r), &c); err != nil {
			return nil, docModel.StageError(docModel.ErrStore, err)
		}
		chunks = append(chunks, c)
	}
	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks, nil
}

// DeleteDocument removes the record and its chunks. Unknown ids are not an error.
func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	if err := s.store.Del(ctx, docKey(id), chunksKey(id)); err != nil {
		return docModel.StageError(docModel.ErrStore, err)
	}
	return nil
}

func (s *RedisDocumentStore) LogQuery(ctx context.Context, entry docModel.QueryLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return docModel.StageError(docModel.ErrStore, err)
	}
	if err = s.store.ListPushCapped(ctx, queryLogKey, data, config.QueryLogCap); err != nil {
		return docModel.StageError(docModel.ErrStore, err)
	}
	return nil
}

// RecentQueries returns up to n logged queries, newest last.
func (s *RedisDocumentStore) RecentQueries(ctx context.Context, n int64) ([]docModel.QueryLogEntry, error) {
	raw, err := s.store.ListRange(ctx, queryLogKey, -n, -1)
	if err != nil {
		return nil, docModel.StageError(docModel.ErrStore, err)
	}
	out := make([]docModel.QueryLogEntry, 0, len(raw))
	for _, r := range raw {
		var e docModel.QueryLogEntry
		if err = json.Unmarshal([]byte(r), &e); err != nil {
			return nil, docModel.StageError(docModel.ErrStore, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *RedisDocumentStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
