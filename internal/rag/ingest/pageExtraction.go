package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/pkg/logger_i"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

const pageExtractTimeout = 10 * time.Second

var logger = logger_i.NewLogger("Text Extractor")

type extractFunc func(ctx context.Context, path string) (docModel.ExtractedText, error)

var extractors = map[docModel.DocumentKind]extractFunc{
	docModel.KindPDF:   extractPDF,
	docModel.KindDOCX:  extractDOCX,
	docModel.KindEmail: extractEmail,
}

// Extract turns a staged file into plain text plus provenance metadata.
// Every failure is reported as docModel.ErrExtraction.
func Extract(ctx context.Context, path string, kind docModel.DocumentKind) (docModel.ExtractedText, error) {
	fn, ok := extractors[kind]
	if !ok {
		return docModel.ExtractedText{}, docModel.UnsupportedType(string(kind))
	}
	res, err := fn(ctx, path)
	if err != nil {
		return docModel.ExtractedText{}, docModel.StageError(docModel.ErrExtraction, err)
	}
	return res, nil
}

func extractPDF(ctx context.Context, path string) (res docModel.ExtractedText, err error) {
	log := logger.Trace(ctx)
	log.Debug("extractPDF", "attempting extraction", path)

	//the pdf reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, err := pdf.Open(path)
	if err != nil {
		log.Error("failed opening of pdf file", "error", err)
		return res, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := f.NumPage()
	log.Debug("extractPDF", "number of pages", numPages)
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			log.Debug("extractPDF", "empty page", i)
			pages = append(pages, "")
			continue
		}

		content, err := protectExtract(ctx, page)
		if err != nil {
			return res, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, content)
	}

	pageCount := numPages
	return docModel.ExtractedText{
		Text:      strings.Join(pages, "\n"),
		PageCount: &pageCount,
		Metadata: map[string]any{
			"total_pages":       numPages,
			"extraction_method": "dslipak/pdf",
		},
	}, nil
}

func protectExtract(ctx context.Context, page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("page text panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(pageExtractTimeout):
		return "", errors.New("page extraction timeout")
	}
}

func extractDOCX(ctx context.Context, path string) (docModel.ExtractedText, error) {
	logger.Trace(ctx).Debug("extractDOCX", "attempting extraction", path)

	text, err := cat.File(path)
	if err != nil {
		return docModel.ExtractedText{}, fmt.Errorf("failed to extract docx: %w", err)
	}

	//cat renders one paragraph per line
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			paragraphs = append(paragraphs, line)
		}
	}

	return docModel.ExtractedText{
		Text: strings.Join(paragraphs, "\n"),
		Metadata: map[string]any{
			"paragraph_count":   len(paragraphs),
			"extraction_method": "lu4p/cat",
		},
	}, nil
}
