package qdrantDB

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/rag/vectorDB"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	qdrantcontainer "github.com/testcontainers/testcontainers-go/modules/qdrant"
)

func TestPointID(t *testing.T) {
	md5Hex := "9e107d9d372bb6826bd81d3542a419d6"
	assert.Equal(t, "9e107d9d-372b-b682-6bd8-1d3542a419d6", PointID(md5Hex))

	other := PointID("not-a-uuid")
	assert.Len(t, other, 36)
	assert.Equal(t, other, PointID("not-a-uuid"))
}

func TestToQdrantFilter(t *testing.T) {
	assert.Nil(t, toQdrantFilter(nil))
	assert.Nil(t, toQdrantFilter(&vectorDB.Filter{}))

	f := toQdrantFilter(&vectorDB.Filter{Domain: docModel.DomainLegal, DocumentIDs: []string{"a", "b"}})
	require.NotNil(t, f)
	assert.Len(t, f.Must, 2)

	f = toQdrantFilter(&vectorDB.Filter{DocumentIDs: []string{"a"}})
	assert.Len(t, f.Must, 1)
}

func TestValueToAny(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{
		"s":    "text",
		"i":    3,
		"f":    0.5,
		"b":    true,
		"list": []any{"x", 1},
	})

	got := payloadToMap(payload)
	assert.Equal(t, "text", got["s"])
	assert.Equal(t, int64(3), got["i"])
	assert.Equal(t, 0.5, got["f"])
	assert.Equal(t, true, got["b"])
	assert.Equal(t, []any{"x", int64(1)}, got["list"])
}

func startQdrant(t *testing.T) *ClientHolder {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ctr, err := qdrantcontainer.Run(ctx, "qdrant/qdrant:v1.13.4")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	endpoint, err := ctr.GRPCEndpoint(ctx)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(endpoint)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	idx, err := NewQdrantIndex(ctx, Config{Host: host, Port: port, PoolSize: 1, Collection: "test-docs", Dimension: 3})
	require.NoError(t, err)
	require.NoError(t, idx.EnsureCollection(ctx))
	return idx
}

func item(doc, chunk string, index int, domain docModel.Domain, vec ...float32) vectorDB.IndexItem {
	return vectorDB.IndexItem{
		Chunk: docModel.Chunk{
			ID:         chunk,
			DocumentID: doc,
			Content:    "content of " + chunk,
			Index:      index,
			Metadata:   map[string]any{"chunk_position": index, "extraction_method": "test"},
		},
		Vector:   vec,
		Domain:   domain,
		Filename: doc + ".pdf",
	}
}

func TestQdrantIndex_Lifecycle(t *testing.T) {
	idx := startQdrant(t)
	ctx := context.Background()

	require.NoError(t, idx.EnsureCollection(ctx), "second ensure must be a no-op")

	err := idx.Upsert(ctx, []vectorDB.IndexItem{
		item("doc-a", "c1", 0, docModel.DomainInsurance, 1, 0, 0),
		item("doc-a", "c2", 1, docModel.DomainInsurance, 0.9, 0.1, 0),
		item("doc-b", "c3", 0, docModel.DomainLegal, 0, 1, 0),
	})
	require.NoError(t, err)

	t.Run("unfiltered query is ranked", func(t *testing.T) {
		res, err := idx.Query(ctx, []float32{1, 0, 0}, 3, nil)
		require.NoError(t, err)
		require.Len(t, res, 3)
		assert.Equal(t, "c1", res[0].ChunkID)
		assert.Equal(t, "doc-a", res[0].DocumentID)
		assert.Equal(t, "doc-a.pdf", res[0].Filename())
		assert.GreaterOrEqual(t, res[0].Score, res[1].Score)
	})

	t.Run("domain filter", func(t *testing.T) {
		res, err := idx.Query(ctx, []float32{1, 0, 0}, 5, &vectorDB.Filter{Domain: docModel.DomainLegal})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "c3", res[0].ChunkID)
	})

	t.Run("delete by document", func(t *testing.T) {
		require.NoError(t, idx.DeleteByDocument(ctx, "doc-a"))
		res, err := idx.Query(ctx, []float32{1, 0, 0}, 5, nil)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "doc-b", res[0].DocumentID)
	})

	t.Run("dimension mismatch rejected", func(t *testing.T) {
		err := idx.Upsert(ctx, []vectorDB.IndexItem{item("doc-c", "c9", 0, docModel.DomainHR, 1, 0)})
		assert.ErrorIs(t, err, docModel.ErrIndex)
	})
}
