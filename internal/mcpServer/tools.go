package mcpServer

import (
	"context"
	"time"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/rag"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type QueryInput struct {
	Query              string   `json:"query" jsonschema:"the question to answer from the ingested documents"`
	Domain             string   `json:"domain,omitempty" jsonschema:"restrict to one domain: insurance, legal, hr, compliance or generic"`
	DocumentIDs        []string `json:"document_ids,omitempty" jsonschema:"restrict to these document ids"`
	MaxResults         int      `json:"max_results,omitempty" jsonschema:"number of chunks to retrieve, 1 to 20 (default 5)"`
	IncludeExplanation *bool    `json:"include_explanation,omitempty" jsonschema:"ask the model for an answer and rationale (default true)"`
}

type QueryOutput struct {
	Answer                   string        `json:"answer"`
	Reasoning                string        `json:"reasoning"`
	ConfidenceScore          float64       `json:"confidence_score"`
	SupportingEvidence       []string      `json:"supporting_evidence"`
	Conditions               []string      `json:"conditions"`
	Limitations              []string      `json:"limitations"`
	AdditionalConsiderations string        `json:"additional_considerations,omitempty"`
	Chunks                   []ChunkOutput `json:"chunks"`
}

type ChunkOutput struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename,omitempty"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

type DocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"the id returned when the document was uploaded"`
}

type DocumentOutput struct {
	DocumentID   string `json:"document_id"`
	Filename     string `json:"filename"`
	DocumentType string `json:"document_type"`
	Domain       string `json:"domain"`
	UploadedAt   string `json:"upload_timestamp"`
	FileSize     int64  `json:"file_size"`
	PageCount    int    `json:"page_count,omitempty"`
	Processed    bool   `json:"processed"`
	ChunkCount   int    `json:"chunk_count"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_documents",
		Description: "Answer a question from the ingested policies, contracts and emails, with the supporting chunks",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Get the metadata of an ingested document",
	}, s.handleGetDocument)
}

func (s *Server) handleQuery(ctx context.Context, _ *mcp.CallToolRequest, input QueryInput) (*mcp.CallToolResult, QueryOutput, error) {
	domain, err := docModel.ParseDomain(input.Domain)
	if err != nil {
		return nil, QueryOutput{}, err
	}
	req := docModel.QueryRequest{
		Query:              input.Query,
		Domain:             domain,
		DocumentIDs:        input.DocumentIDs,
		MaxResults:         input.MaxResults,
		IncludeExplanation: input.IncludeExplanation == nil || *input.IncludeExplanation,
	}
	if err = rag.NormalizeQuery(&req); err != nil {
		return nil, QueryOutput{}, err
	}

	resp, err := s.rag.Query(ctx, req)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	out := QueryOutput{
		Answer:                   resp.Answer,
		Reasoning:                resp.DecisionRationale.Reasoning,
		ConfidenceScore:          resp.DecisionRationale.ConfidenceScore,
		SupportingEvidence:       orEmpty(resp.DecisionRationale.SupportingEvidence),
		Conditions:               orEmpty(resp.DecisionRationale.Conditions),
		Limitations:              orEmpty(resp.DecisionRationale.Limitations),
		AdditionalConsiderations: resp.AdditionalConsiderations,
		Chunks:                   make([]ChunkOutput, len(resp.RetrievedChunks)),
	}
	for i, c := range resp.RetrievedChunks {
		out.Chunks[i] = ChunkOutput{
			ChunkID:    c.ChunkID,
			DocumentID: c.DocumentID,
			Filename:   c.Filename(),
			Score:      c.Score,
			Content:    c.Content,
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetDocument(ctx context.Context, _ *mcp.CallToolRequest, input DocumentInput) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.rag.GetDocument(ctx, input.DocumentID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	chunks, err := s.rag.GetDocumentChunks(ctx, input.DocumentID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}

	out := DocumentOutput{
		DocumentID:   doc.ID,
		Filename:     doc.Filename,
		DocumentType: string(doc.Kind),
		Domain:       string(doc.Domain),
		UploadedAt:   doc.UploadedAt.Format(time.RFC3339),
		FileSize:     doc.SizeBytes,
		Processed:    doc.Processed,
		ChunkCount:   len(chunks),
	}
	if doc.PageCount != nil {
		out.PageCount = *doc.PageCount
	}
	return nil, out, nil
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
