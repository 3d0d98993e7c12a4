package memoryDB

import (
	"context"
	"strings"
	"testing"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/rag/vectorDB"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(doc, chunk string, domain docModel.Domain, vec ...float32) vectorDB.IndexItem {
	return vectorDB.IndexItem{
		Chunk:    docModel.Chunk{ID: chunk, DocumentID: doc, Content: "text " + chunk, Metadata: map[string]any{"total_pages": 3}},
		Vector:   vec,
		Domain:   domain,
		Filename: doc + ".docx",
	}
}

func seeded(t *testing.T) *Index {
	t.Helper()
	idx := NewIndex(2)
	require.NoError(t, idx.Upsert(context.Background(), []vectorDB.IndexItem{
		newItem("d1", "a", docModel.DomainInsurance, 1, 0),
		newItem("d1", "b", docModel.DomainInsurance, 0.7, 0.7),
		newItem("d2", "c", docModel.DomainHR, 0, 1),
	}))
	return idx
}

func TestQuery_RankAndPayload(t *testing.T) {
	idx := seeded(t)

	res, err := idx.Query(context.Background(), []float32{1, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].ChunkID)
	assert.InDelta(t, 1.0, res[0].Score, 1e-9)
	assert.Equal(t, "b", res[1].ChunkID)
	assert.Equal(t, "d1.docx", res[0].Filename())
	assert.Equal(t, 3, res[0].Metadata["total_pages"])
	assert.Equal(t, "insurance", res[0].Metadata["domain"])
	_, hasContent := res[0].Metadata["content"]
	assert.False(t, hasContent)
}

func TestQuery_Filters(t *testing.T) {
	idx := seeded(t)
	ctx := context.Background()

	res, err := idx.Query(ctx, []float32{1, 0}, 5, &vectorDB.Filter{Domain: docModel.DomainHR})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "c", res[0].ChunkID)

	res, err = idx.Query(ctx, []float32{1, 0}, 5, &vectorDB.Filter{DocumentIDs: []string{"d2", "missing"}})
	require.NoError(t, err)
	assert.Len(t, res, 1)

	res, err = idx.Query(ctx, []float32{1, 0}, 5, &vectorDB.Filter{Domain: docModel.DomainHR, DocumentIDs: []string{"d1"}})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestUpsert_DimensionAndIdempotence(t *testing.T) {
	idx := seeded(t)
	ctx := context.Background()

	err := idx.Upsert(ctx, []vectorDB.IndexItem{newItem("d3", "z", docModel.DomainLegal, 1, 0, 0)})
	assert.ErrorIs(t, err, docModel.ErrIndex)
	assert.Equal(t, 3, idx.Len())

	require.NoError(t, idx.Upsert(ctx, []vectorDB.IndexItem{newItem("d1", "a", docModel.DomainInsurance, 1, 0)}))
	assert.Equal(t, 3, idx.Len())
}

func TestDeleteByDocument(t *testing.T) {
	idx := seeded(t)
	require.NoError(t, idx.DeleteByDocument(context.Background(), "d1"))
	assert.Equal(t, 1, idx.Len())
	require.NoError(t, idx.DeleteByDocument(context.Background(), "unknown"))
}

func TestBuildPayload_TruncatesContent(t *testing.T) {
	item := newItem("d", "x", docModel.DomainLegal, 1, 0)
	item.Chunk.Content = strings.Repeat("é", 1500)
	item.Chunk.Metadata["chunk_id"] = "spoofed"

	payload := vectorDB.BuildPayload(item)
	assert.Equal(t, 1000, len([]rune(payload[vectorDB.KeyContent].(string))))
	assert.Equal(t, "x", payload[vectorDB.KeyChunkID])
}
