package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"maps"
	"time"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/google/uuid"
)

// NewDocumentID hashes the filename with a nanosecond timestamp and a random salt,
// so two uploads of the same file in the same instant still get distinct ids.
func NewDocumentID(filename string, now time.Time) string {
	salt := uuid.New()
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s_%x", filename, now.UTC().Format(time.RFC3339Nano), salt[:8])))
	return hex.EncodeToString(sum[:])
}

// ChunkID is md5("<documentID>_<index>_<first 50 characters>").
func ChunkID(documentID string, index int, content string) string {
	prefix := []rune(content)
	if len(prefix) > 50 {
		prefix = prefix[:50]
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%d_%s", documentID, index, string(prefix))))
	return hex.EncodeToString(sum[:])
}

// PrepareChunks splits text and builds chunk records that inherit the extraction metadata.
func PrepareChunks(splitter *Splitter, documentID string, text string, metadata map[string]any) []docModel.Chunk {
	pieces := splitter.Split(text)
	chunks := make([]docModel.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		md := make(map[string]any, len(metadata)+2)
		maps.Copy(md, metadata)
		md["chunk_length"] = runeLen(piece)
		md["chunk_position"] = i

		chunks = append(chunks, docModel.Chunk{
			ID:         ChunkID(documentID, i, piece),
			DocumentID: documentID,
			Content:    piece,
			Index:      i,
			Metadata:   md,
		})
	}
	return chunks
}
