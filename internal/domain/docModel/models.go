package docModel

import (
	"path/filepath"
	"strings"
	"time"
)

type DocumentKind string

const (
	KindPDF   DocumentKind = "pdf"
	KindDOCX  DocumentKind = "docx"
	KindEmail DocumentKind = "email"
)

// KindFromFilename maps an upload's extension onto a document kind.
// The returned extension is lower-cased and keeps its leading dot.
func KindFromFilename(filename string) (DocumentKind, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return KindPDF, ext, nil
	case ".docx":
		return KindDOCX, ext, nil
	case ".eml", ".msg":
		return KindEmail, ext, nil
	default:
		return "", ext, UnsupportedType(ext)
	}
}

type Document struct {
	ID         string       `json:"document_id" bson:"_id"`
	Filename   string       `json:"filename" bson:"filename"`
	Kind       DocumentKind `json:"document_type" bson:"document_type"`
	Domain     Domain       `json:"domain" bson:"domain"`
	UploadedAt time.Time    `json:"upload_timestamp" bson:"upload_timestamp"`
	SizeBytes  int64        `json:"file_size" bson:"file_size"`
	PageCount  *int         `json:"page_count,omitempty" bson:"page_count,omitempty"`
	Processed  bool         `json:"processed" bson:"processed"`
}

type Chunk struct {
	ID          string         `json:"chunk_id" bson:"_id"`
	DocumentID  string         `json:"document_id" bson:"document_id"`
	Content     string         `json:"content" bson:"content"`
	Index       int            `json:"chunk_index" bson:"chunk_index"`
	Metadata    map[string]any `json:"metadata" bson:"metadata"`
	EmbeddingID string         `json:"embedding_id,omitempty" bson:"embedding_id,omitempty"`
}

// ExtractedText is what an extractor hands to the chunker.
type ExtractedText struct {
	Text      string
	PageCount *int
	Metadata  map[string]any
}

type RetrievedResult struct {
	ChunkID    string         `json:"chunk_id"`
	DocumentID string         `json:"document_id"`
	Content    string         `json:"content"`
	Score      float64        `json:"relevance_score"`
	Metadata   map[string]any `json:"metadata"`
}

// Filename reads the provenance name stored alongside the vector, if any.
func (r RetrievedResult) Filename() string {
	if r.Metadata == nil {
		return ""
	}
	if v, ok := r.Metadata["filename"].(string); ok {
		return v
	}
	return ""
}

type DecisionRationale struct {
	Reasoning          string   `json:"reasoning"`
	ConfidenceScore    float64  `json:"confidence_score"`
	SupportingEvidence []string `json:"supporting_evidence"`
	Conditions         []string `json:"conditions"`
	Limitations        []string `json:"limitations"`
}

type QueryRequest struct {
	Query              string   `json:"query"`
	Domain             Domain   `json:"domain,omitempty"`
	DocumentIDs        []string `json:"document_ids,omitempty"`
	MaxResults         int      `json:"max_results"`
	IncludeExplanation bool     `json:"include_explanation"`
}

type QueryResponse struct {
	Query                    string            `json:"query"`
	Answer                   string            `json:"answer"`
	DecisionRationale        DecisionRationale `json:"decision_rationale"`
	AdditionalConsiderations string            `json:"additional_considerations,omitempty"`
	RetrievedChunks          []RetrievedResult `json:"retrieved_chunks"`
	ProcessingTime           float64           `json:"processing_time"`
	Timestamp                time.Time         `json:"timestamp"`
}

type QueryLogEntry struct {
	Query          string    `json:"query" bson:"query"`
	Domain         Domain    `json:"domain,omitempty" bson:"domain,omitempty"`
	NumResults     int       `json:"num_results" bson:"num_results"`
	ProcessingTime float64   `json:"processing_time" bson:"processing_time"`
	Timestamp      time.Time `json:"timestamp" bson:"timestamp"`
}

// IngestRequest describes an uploaded file already staged on local disk.
type IngestRequest struct {
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	Domain    Domain `json:"domain"`
	SizeBytes int64  `json:"file_size"`
}
