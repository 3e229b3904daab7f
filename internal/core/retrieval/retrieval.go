// Package retrieval answers "which stored chunks ground this query" for one
// document. The vector index is shared across all documents, so the search
// runs top-K over the whole index and the document cut happens here,
// client-side, after the fact. K therefore has to be generous enough that
// the target document's chunks surface at all; it is config, not hardcoded.
package retrieval

import (
	"context"
	"errors"
	"strings"

	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/faults"
	"github.com/eniola-bakare/notemark/internal/models"
)

type Retriever struct {
	db       core.DbClient
	embedder core.EmbeddingProvider
	topK     int
}

func NewRetriever(db core.DbClient, embedder core.EmbeddingProvider, topK int) *Retriever {
	if topK <= 0 {
		topK = 4
	}
	return &Retriever{db: db, embedder: embedder, topK: topK}
}

// Retrieve embeds the query, pulls the top-K nearest chunks from the shared
// index and keeps only those tagged with documentID, preserving the
// similarity order. An empty result is a valid outcome, never an error:
// read-only, stored vectors are never touched.
func (r *Retriever) Retrieve(ctx context.Context, documentID, query string) ([]models.DocumentChunk, error) {
	vecs, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, &faults.EmbeddingServiceError{Err: errNoQueryVector}
	}

	candidates, err := r.db.SearchChunks(ctx, vecs[0], r.topK)
	if err != nil {
		return nil, err
	}

	var out []models.DocumentChunk
	for _, ch := range candidates {
		if ch.DocumentID == documentID {
			out = append(out, ch)
		}
	}
	return out, nil
}

// ContextText concatenates retrieved chunk texts into the prompt context.
func ContextText(chunks []models.DocumentChunk) string {
	var sb strings.Builder
	for _, ch := range chunks {
		sb.WriteString(ch.Text)
		sb.WriteString("\n---\n")
	}
	return sb.String()
}

var errNoQueryVector = errors.New("embedder returned no vector for query")
