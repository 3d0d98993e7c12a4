package docModel

import (
	"errors"
	"fmt"
)

// pipeline stage failures, wrapped together with their cause
var (
	ErrExtraction      = errors.New("extraction failed")
	ErrEmbedding       = errors.New("embedding failed")
	ErrIndex           = errors.New("vector index failed")
	ErrStore           = errors.New("document store failed")
	ErrGeneration      = errors.New("generation failed")
	ErrResponseParse   = errors.New("model response could not be parsed")
	ErrNotFound        = errors.New("not found")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrInvalidRequest  = errors.New("invalid request")
)

// StageError joins a stage sentinel and its cause so errors.Is matches both.
func StageError(stage error, cause error) error {
	if cause == nil {
		return stage
	}
	return fmt.Errorf("%w: %w", stage, cause)
}

func UnsupportedType(ext string) error {
	return fmt.Errorf("%w: %s (allowed: .pdf, .docx, .eml, .msg)", ErrUnsupportedType, ext)
}
