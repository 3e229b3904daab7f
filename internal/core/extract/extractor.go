// Package extract implements core.DocumentExtractor: PDF bytes in, ordered
// page texts out. PDFs get real per-page extraction; anything else falls
// back to docconv and comes back as a single page.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv"

	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/faults"
)

var _ core.DocumentExtractor = (*Extractor)(nil)

type Extractor struct {
	useReadability bool
}

func NewExtractor(useReadability bool) *Extractor {
	return &Extractor{useReadability: useReadability}
}

// ExtractPages dispatches on content type. Extraction is CPU-bound and
// in-memory; ctx is only consulted between stages.
func (e *Extractor) ExtractPages(ctx context.Context, data []byte, contentType string) ([]core.PageText, error) {
	if isPDF(contentType, data) {
		pages, err := extractPDF(data)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return pages, nil
	}
	return e.extractDocconv(ctx, data, contentType)
}

// extractDocconv handles the non-PDF upload types (docx, html, plain text)
// the upload endpoint accepts. docconv has no notion of pages, so the whole
// body is returned as page 1.
func (e *Extractor) extractDocconv(ctx context.Context, data []byte, contentType string) ([]core.PageText, error) {
	res, err := docconv.Convert(bytes.NewReader(data), contentType, e.useReadability)
	if err != nil {
		return nil, &faults.ExtractionError{Err: fmt.Errorf("docconv %s: %w", contentType, err)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(res.Body) == "" {
		return nil, nil
	}
	return []core.PageText{{Page: 1, Text: res.Body}}, nil
}

// isPDF trusts the declared content type first and the magic bytes second;
// uploads routinely arrive as application/octet-stream.
func isPDF(contentType string, data []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "pdf") {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF-"))
}
