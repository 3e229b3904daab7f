package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/chunker"
	"github.com/eniola-bakare/notemark/internal/core/faults"
)

// PdfLoaderHandler serves the stateless preview pipeline: fetch a PDF by
// URL, extract and chunk it, and return the chunks without persisting
// anything. Useful for inspecting how a document will split before upload.
type PdfLoaderHandler struct {
	extractor      core.DocumentExtractor
	httpClient     *http.Client
	defaultSize    int
	defaultOverlap int
}

func NewPdfLoaderHandler(extractor core.DocumentExtractor, defaultSize, defaultOverlap int) *PdfLoaderHandler {
	return &PdfLoaderHandler{
		extractor:      extractor,
		httpClient:     &http.Client{Timeout: 2 * time.Minute},
		defaultSize:    defaultSize,
		defaultOverlap: defaultOverlap,
	}
}

type pdfLoaderRequest struct {
	PdfURL       string `json:"pdfUrl"`
	ChunkSize    *int   `json:"chunkSize,omitempty"`
	ChunkOverlap *int   `json:"chunkOverlap,omitempty"`
}

type chunkMetadata struct {
	Page       int `json:"page"`
	ChunkIndex int `json:"chunkIndex"`
}

type previewChunk struct {
	ID       string        `json:"id"`
	Content  string        `json:"content"`
	Metadata chunkMetadata `json:"metadata"`
}

type documentInfo struct {
	TotalPages   int `json:"totalPages"`
	TotalChunks  int `json:"totalChunks"`
	ChunkSize    int `json:"chunkSize"`
	ChunkOverlap int `json:"chunkOverlap"`
}

type pdfLoaderResponse struct {
	Status       string         `json:"status"`
	DocumentInfo documentInfo   `json:"documentInfo"`
	Chunks       []previewChunk `json:"chunks"`
}

func (h *PdfLoaderHandler) LoadPdf(w http.ResponseWriter, r *http.Request) {
	var req pdfLoaderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.PdfURL == "" {
		http.Error(w, "pdfUrl is required", http.StatusBadRequest)
		return
	}

	size, overlap := h.defaultSize, h.defaultOverlap
	if req.ChunkSize != nil {
		size = *req.ChunkSize
	}
	if req.ChunkOverlap != nil {
		overlap = *req.ChunkOverlap
	}

	splitter, err := chunker.New(size, overlap)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := h.fetch(r.Context(), req.PdfURL)
	if err != nil {
		log.Printf("pdf-loader: fetch %s failed: %v", req.PdfURL, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	pages, err := h.extractor.ExtractPages(r.Context(), data, "application/pdf")
	if err != nil {
		var exErr *faults.ExtractionError
		if errors.As(err, &exErr) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	chunks := splitter.SplitPages(pages)

	out := make([]previewChunk, len(chunks))
	for i, ch := range chunks {
		out[i] = previewChunk{
			ID:      fmt.Sprintf("chunk-%d", ch.Index),
			Content: ch.Text,
			Metadata: chunkMetadata{
				Page:       ch.Page,
				ChunkIndex: ch.Index,
			},
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pdfLoaderResponse{
		Status: "success",
		DocumentInfo: documentInfo{
			TotalPages:   len(pages),
			TotalChunks:  len(chunks),
			ChunkSize:    splitter.ChunkSize(),
			ChunkOverlap: splitter.ChunkOverlap(),
		},
		Chunks: out,
	})
}

// fetch downloads the source bytes. A reachable server answering non-2xx is
// still a FetchError; the status code is kept for the caller.
func (h *PdfLoaderHandler) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &faults.FetchError{URL: url, Err: err}
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, faults.AsTimeout("fetch pdf", &faults.FetchError{URL: url, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &faults.FetchError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &faults.FetchError{URL: url, Err: err}
	}
	return data, nil
}
