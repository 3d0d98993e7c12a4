package docModel

import "context"

// DocumentStore persists document records, chunk records and the query log.
// GetDocument returns ErrNotFound when the id is unknown.
type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, error)
	MarkProcessed(ctx context.Context, id string) error
	SaveChunks(ctx context.Context, chunks []Chunk) error
	GetChunks(ctx context.Context, documentID string) ([]Chunk, error)
	DeleteDocument(ctx context.Context, id string) error
	LogQuery(ctx context.Context, entry QueryLogEntry) error
}
