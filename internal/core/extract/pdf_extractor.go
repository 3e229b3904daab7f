package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/faults"
)

// extractPDF pulls plain text out of a PDF page by page, in source order.
// A stream that cannot be parsed as a PDF (truncated download, wrong content
// type, corrupt file) yields faults.ExtractionError.
func extractPDF(data []byte) ([]core.PageText, error) {
	if len(data) == 0 {
		return nil, &faults.ExtractionError{Err: fmt.Errorf("empty byte stream")}
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &faults.ExtractionError{Err: fmt.Errorf("not a parseable PDF: %w", err)}
	}

	var pages []core.PageText
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page shouldn't sink the document.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, core.PageText{Page: i, Text: text})
	}
	return pages, nil
}
