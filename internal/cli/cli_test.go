package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRagService struct {
	ingested  []docModel.IngestRequest
	queried   []docModel.QueryRequest
	deleted   []string
	setupRuns int
	queryResp docModel.QueryResponse
	ingestErr error
	docs      map[string]docModel.Document
	chunks    map[string][]docModel.Chunk
}

func (m *mockRagService) IngestDocument(ctx context.Context, req docModel.IngestRequest) (docModel.Document, error) {
	m.ingested = append(m.ingested, req)
	if m.ingestErr != nil {
		return docModel.Document{}, m.ingestErr
	}
	return docModel.Document{ID: "doc-1", Filename: req.Filename, Domain: req.Domain, SizeBytes: req.SizeBytes, Processed: true}, nil
}

func (m *mockRagService) Query(ctx context.Context, req docModel.QueryRequest) (docModel.QueryResponse, error) {
	m.queried = append(m.queried, req)
	return m.queryResp, nil
}

func (m *mockRagService) GetDocument(ctx context.Context, id string) (docModel.Document, error) {
	if d, ok := m.docs[id]; ok {
		return d, nil
	}
	return docModel.Document{}, docModel.ErrNotFound
}

func (m *mockRagService) GetDocumentChunks(ctx context.Context, id string) ([]docModel.Chunk, error) {
	if _, ok := m.docs[id]; !ok {
		return nil, docModel.ErrNotFound
	}
	return m.chunks[id], nil
}

func (m *mockRagService) DeleteDocument(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRagService) Setup(ctx context.Context) error {
	m.setupRuns++
	return nil
}

// run executes rqctl with args against mock and returns stdout.
func run(t *testing.T, mock rag.Service, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(func(ctx context.Context) (rag.Service, error) { return mock, nil })
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSetupCommand(t *testing.T) {
	mock := &mockRagService{}
	out, err := run(t, mock, "setup")
	require.NoError(t, err)
	assert.Equal(t, 1, mock.setupRuns)
	assert.Contains(t, out, "Vector collection ready")
}

func TestIngestCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "policy.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4 fake"), 0o600))

	t.Run("ingests with domain", func(t *testing.T) {
		mock := &mockRagService{}
		out, err := run(t, mock, "ingest", file, "--domain", "Insurance")
		require.NoError(t, err)
		require.Len(t, mock.ingested, 1)
		req := mock.ingested[0]
		assert.Equal(t, file, req.Path)
		assert.Equal(t, "policy.pdf", req.Filename)
		assert.Equal(t, docModel.DomainInsurance, req.Domain)
		assert.Equal(t, int64(13), req.SizeBytes)
		assert.Contains(t, out, "document id: doc-1")
	})

	t.Run("json output", func(t *testing.T) {
		out, err := run(t, &mockRagService{}, "ingest", file, "-d", "hr", "--json")
		require.NoError(t, err)
		var doc docModel.Document
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "doc-1", doc.ID)
		assert.Equal(t, docModel.DomainHR, doc.Domain)
	})

	t.Run("domain is required", func(t *testing.T) {
		mock := &mockRagService{}
		_, err := run(t, mock, "ingest", file)
		assert.ErrorContains(t, err, "--domain is required")
		assert.Empty(t, mock.ingested)
	})

	t.Run("unknown domain", func(t *testing.T) {
		_, err := run(t, &mockRagService{}, "ingest", file, "--domain", "finance")
		assert.ErrorIs(t, err, docModel.ErrInvalidRequest)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, &mockRagService{}, "ingest", filepath.Join(t.TempDir(), "nope.pdf"), "--domain", "legal")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("pipeline error is surfaced", func(t *testing.T) {
		mock := &mockRagService{ingestErr: docModel.ErrExtraction}
		_, err := run(t, mock, "ingest", file, "--domain", "legal")
		assert.ErrorIs(t, err, docModel.ErrExtraction)
	})
}

func TestQueryCommand(t *testing.T) {
	resp := docModel.QueryResponse{
		Answer: "Yes, after the waiting period",
		DecisionRationale: docModel.DecisionRationale{
			Reasoning:       "Clause 3.2",
			ConfidenceScore: 0.75,
			Conditions:      []string{"90 day waiting period"},
		},
		RetrievedChunks: []docModel.RetrievedResult{{
			ChunkID:    "c1",
			DocumentID: "d1",
			Content:    "Knee   surgery\nis covered",
			Score:      0.88,
			Metadata:   map[string]any{"filename": "policy.pdf"},
		}},
		Timestamp: time.Now(),
	}

	t.Run("defaults", func(t *testing.T) {
		mock := &mockRagService{queryResp: resp}
		out, err := run(t, mock, "query", "is", "knee", "surgery", "covered?")
		require.NoError(t, err)
		require.Len(t, mock.queried, 1)
		req := mock.queried[0]
		assert.Equal(t, "is knee surgery covered?", req.Query)
		assert.Equal(t, 5, req.MaxResults)
		assert.True(t, req.IncludeExplanation)
		assert.Empty(t, req.Domain)
		assert.Empty(t, req.DocumentIDs)

		assert.Contains(t, out, "Answer: Yes, after the waiting period")
		assert.Contains(t, out, "confidence 0.75")
		assert.Contains(t, out, "- 90 day waiting period")
		assert.Contains(t, out, "[1] policy.pdf (0.880)")
		assert.Contains(t, out, "Knee surgery is covered")
	})

	t.Run("filters and options", func(t *testing.T) {
		mock := &mockRagService{queryResp: resp}
		_, err := run(t, mock, "query", "notice period",
			"--domain", "legal", "--document-id", "a", "--document-id", "b,c",
			"--max-results", "12", "--no-explanation")
		require.NoError(t, err)
		req := mock.queried[0]
		assert.Equal(t, docModel.DomainLegal, req.Domain)
		assert.Equal(t, []string{"a", "b", "c"}, req.DocumentIDs)
		assert.Equal(t, 12, req.MaxResults)
		assert.False(t, req.IncludeExplanation)
	})

	t.Run("rejects out of range max results", func(t *testing.T) {
		mock := &mockRagService{}
		_, err := run(t, mock, "query", "anything", "-n", "21")
		assert.ErrorIs(t, err, docModel.ErrInvalidRequest)
		assert.Empty(t, mock.queried)
	})

	t.Run("rejects blank query", func(t *testing.T) {
		_, err := run(t, &mockRagService{}, "query", "   ")
		assert.ErrorIs(t, err, docModel.ErrInvalidRequest)
	})

	t.Run("no chunks", func(t *testing.T) {
		out, err := run(t, &mockRagService{queryResp: docModel.QueryResponse{Answer: "nothing found"}}, "query", "x")
		require.NoError(t, err)
		assert.Contains(t, out, "No matching chunks.")
	})
}

func TestDocumentCommands(t *testing.T) {
	pages := 3
	mock := &mockRagService{
		docs: map[string]docModel.Document{
			"d1": {ID: "d1", Filename: "handbook.docx", Kind: docModel.KindDOCX, Domain: docModel.DomainHR, SizeBytes: 2048, PageCount: &pages, Processed: true},
		},
		chunks: map[string][]docModel.Chunk{
			"d1": {{ID: "d1_chunk_0", DocumentID: "d1", Index: 0, Content: "first"}, {ID: "d1_chunk_1", DocumentID: "d1", Index: 1, Content: "second"}},
		},
	}

	out, err := run(t, mock, "document", "get", "d1")
	require.NoError(t, err)
	assert.Contains(t, out, "handbook.docx")
	assert.Contains(t, out, "Pages:     3")

	out, err = run(t, mock, "document", "chunks", "d1")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] d1_chunk_1")
	assert.Contains(t, out, "2 chunks")

	_, err = run(t, mock, "document", "get", "missing")
	assert.ErrorIs(t, err, docModel.ErrNotFound)

	out, err = run(t, mock, "document", "delete", "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, mock.deleted)
	assert.Contains(t, out, "Deleted d1")

	_, err = run(t, mock, "document", "delete")
	assert.Error(t, err)
}

func TestFactoryError(t *testing.T) {
	root := NewRootCmd(func(ctx context.Context) (rag.Service, error) { return nil, errors.New("qdrant unreachable") })
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"setup"})
	err := root.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "initialising services: qdrant unreachable")
}
