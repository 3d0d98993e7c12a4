package vectorDB

import (
	"context"
	"fmt"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
)

// IndexItem is one chunk ready for the index together with the document facts
// the query path filters on.
type IndexItem struct {
	Chunk    docModel.Chunk
	Vector   []float32
	Domain   docModel.Domain
	Filename string
}

// Filter restricts a query. A nil or empty filter matches everything.
type Filter struct {
	Domain      docModel.Domain
	DocumentIDs []string
}

func (f *Filter) IsEmpty() bool {
	return f == nil || (f.Domain == "" && len(f.DocumentIDs) == 0)
}

// Index stores chunk vectors. Query returns hits best first with the raw similarity score.
type Index interface {
	EnsureCollection(ctx context.Context) error
	Upsert(ctx context.Context, items []IndexItem) error
	Query(ctx context.Context, vector []float32, topK int, filter *Filter) ([]docModel.RetrievedResult, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

// payload keys owned by the index, chunk metadata never overrides these
const (
	KeyContent    = "content"
	KeyDocumentID = "document_id"
	KeyChunkID    = "chunk_id"
	KeyChunkIndex = "chunk_index"
	KeyDomain     = "domain"
	KeyFilename   = "filename"
)

// BuildPayload flattens the chunk metadata next to the reserved keys. Content is truncated,
// the full text lives in the document store.
func BuildPayload(item IndexItem) map[string]any {
	payload := make(map[string]any, len(item.Chunk.Metadata)+6)
	for k, v := range item.Chunk.Metadata {
		payload[k] = sanitize(v)
	}

	content := []rune(item.Chunk.Content)
	if len(content) > config.VectorContentLimit {
		content = content[:config.VectorContentLimit]
	}
	payload[KeyContent] = string(content)
	payload[KeyDocumentID] = item.Chunk.DocumentID
	payload[KeyChunkID] = item.Chunk.ID
	payload[KeyChunkIndex] = item.Chunk.Index
	payload[KeyDomain] = string(item.Domain)
	payload[KeyFilename] = item.Filename
	return payload
}

// ResultFromPayload is the inverse used by every backend on the way out.
func ResultFromPayload(score float64, payload map[string]any) docModel.RetrievedResult {
	md := make(map[string]any, len(payload))
	for k, v := range payload {
		if k != KeyContent {
			md[k] = v
		}
	}
	content, _ := payload[KeyContent].(string)
	docID, _ := payload[KeyDocumentID].(string)
	chunkID, _ := payload[KeyChunkID].(string)
	return docModel.RetrievedResult{
		ChunkID:    chunkID,
		DocumentID: docID,
		Content:    content,
		Score:      score,
		Metadata:   md,
	}
}

// sanitize narrows values to the scalar/list/map shapes every payload store accepts.
func sanitize(v any) any {
	switch t := v.(type) {
	case nil, bool, string, int, int32, int64, float32, float64:
		return t
	case *int:
		if t == nil {
			return nil
		}
		return *t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = sanitize(s)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = sanitize(s)
		}
		return out
	default:
		return fmt.Sprint(t)
	}
}
