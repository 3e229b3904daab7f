package core

import (
	"context"
)

// PageText is one page worth of extracted text, 1-indexed, in source order.
// Transient: it exists only between extraction and chunking.
type PageText struct {
	Page int
	Text string
}

// DocumentExtractor turns a raw byte stream into ordered page texts.
// The contentType hint picks the parsing strategy. Pure transformation,
// no persistence; a stream that cannot be parsed yields faults.ExtractionError.
type DocumentExtractor interface {
	ExtractPages(ctx context.Context, data []byte, contentType string) ([]PageText, error)
}
