package embedding

import (
	"context"
	"regexp"
	"strings"

	"github.com/akolanti/intelliquery/internal/config"
)

// Embedder turns text into fixed-dimension vectors. Documents and queries are embedded
// under different roles; mixing them up degrades retrieval.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanText collapses whitespace runs to a single space and hard-truncates long input.
func CleanText(text string) string {
	cleaned := strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	runes := []rune(cleaned)
	if len(runes) > config.EmbeddingMaxInputChars {
		return string(runes[:config.EmbeddingMaxInputChars]) + "..."
	}
	return cleaned
}

// Batches splits texts into consecutive groups of at most size elements.
func Batches(texts []string, size int) [][]string {
	if size <= 0 {
		size = len(texts)
	}
	var out [][]string
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		out = append(out, texts[start:end])
	}
	return out
}
