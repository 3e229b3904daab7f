package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/coretest"
	"github.com/eniola-bakare/notemark/internal/core/faults"
)

func TestLoadPdfRejectsMissingURL(t *testing.T) {
	h := NewPdfLoaderHandler(&coretest.FakeExtractor{}, 1000, 200)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pdf-loader", strings.NewReader(`{}`))
	h.LoadPdf(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadPdfRejectsBadChunkParams(t *testing.T) {
	h := NewPdfLoaderHandler(&coretest.FakeExtractor{}, 1000, 200)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pdf-loader",
		strings.NewReader(`{"pdfUrl":"https://example.com/a.pdf","chunkSize":100,"chunkOverlap":100}`))
	h.LoadPdf(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid config")
}

func TestLoadPdfUpstreamFailureIsBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	h := NewPdfLoaderHandler(&coretest.FakeExtractor{}, 1000, 200)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pdf-loader",
		strings.NewReader(fmt.Sprintf(`{"pdfUrl":%q}`, upstream.URL+"/missing.pdf")))
	h.LoadPdf(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream status 404")
}

func TestLoadPdfExtractionFailureIsUnprocessable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a pdf at all"))
	}))
	defer upstream.Close()

	ext := &coretest.FakeExtractor{Err: &faults.ExtractionError{Err: errors.New("bad xref")}}
	h := NewPdfLoaderHandler(ext, 1000, 200)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pdf-loader",
		strings.NewReader(fmt.Sprintf(`{"pdfUrl":%q}`, upstream.URL+"/a.pdf")))
	h.LoadPdf(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLoadPdfReturnsChunksWithMetadata(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-stub"))
	}))
	defer upstream.Close()

	ext := &coretest.FakeExtractor{Pages: []core.PageText{
		{Page: 1, Text: "first page text"},
		{Page: 2, Text: "second page text"},
	}}
	h := NewPdfLoaderHandler(ext, 1000, 200)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pdf-loader",
		strings.NewReader(fmt.Sprintf(`{"pdfUrl":%q,"chunkSize":40,"chunkOverlap":10}`, upstream.URL+"/a.pdf")))
	h.LoadPdf(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp pdfLoaderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 2, resp.DocumentInfo.TotalPages)
	assert.Equal(t, len(resp.Chunks), resp.DocumentInfo.TotalChunks)
	assert.Equal(t, 40, resp.DocumentInfo.ChunkSize)
	assert.Equal(t, 10, resp.DocumentInfo.ChunkOverlap)
	require.NotEmpty(t, resp.Chunks)
	for i, ch := range resp.Chunks {
		assert.Equal(t, i, ch.Metadata.ChunkIndex)
		assert.NotEmpty(t, ch.Content)
		assert.NotZero(t, ch.Metadata.Page)
	}
}
