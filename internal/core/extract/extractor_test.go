package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eniola-bakare/notemark/internal/core/faults"
)

func TestExtractPagesRejectsMalformedPDF(t *testing.T) {
	e := NewExtractor(false)

	for name, data := range map[string][]byte{
		"empty stream":    {},
		"not a pdf":       []byte("%PDF- this is a lie"),
		"html as pdf":     []byte("<html><body>nope</body></html>x%PDF-"),
		"truncated magic": []byte("%PD"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := e.ExtractPages(context.Background(), data, "application/pdf")
			require.Error(t, err)
			var exErr *faults.ExtractionError
			assert.ErrorAs(t, err, &exErr)
		})
	}
}

func TestExtractPagesPlainTextFallback(t *testing.T) {
	e := NewExtractor(false)

	pages, err := e.ExtractPages(context.Background(), []byte("hello from a text file"), "text/plain")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Page)
	assert.Contains(t, pages[0].Text, "hello from a text file")
}

func TestIsPDFSniffing(t *testing.T) {
	assert.True(t, isPDF("application/pdf", nil))
	assert.True(t, isPDF("application/octet-stream", []byte("%PDF-1.7 ...")))
	assert.False(t, isPDF("text/plain", []byte("plain text")))
}
