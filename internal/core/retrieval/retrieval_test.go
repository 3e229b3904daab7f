package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eniola-bakare/notemark/internal/core/coretest"
	"github.com/eniola-bakare/notemark/internal/models"
)

func TestRetrieveFiltersByDocument(t *testing.T) {
	db := coretest.NewFakeDB()
	db.SearchResult = []models.DocumentChunk{
		{ID: "c1", DocumentID: "doc-a", Text: "first"},
		{ID: "c2", DocumentID: "doc-b", Text: "other doc"},
		{ID: "c3", DocumentID: "doc-a", Text: "second"},
	}
	r := NewRetriever(db, &coretest.FakeEmbedder{}, 5)

	chunks, err := r.Retrieve(context.Background(), "doc-a", "what is this about")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	// Similarity order preserved.
	assert.Equal(t, "c1", chunks[0].ID)
	assert.Equal(t, "c3", chunks[1].ID)
	for _, ch := range chunks {
		assert.Equal(t, "doc-a", ch.DocumentID)
	}
}

// Isolation must hold no matter how many ingestion runs exist for other ids.
func TestRetrieveIsolationAcrossManyDocuments(t *testing.T) {
	db := coretest.NewFakeDB()
	for _, id := range []string{"doc-x", "doc-y", "doc-z", "doc-y"} {
		db.SearchResult = append(db.SearchResult, models.DocumentChunk{DocumentID: id, Text: id})
	}
	r := NewRetriever(db, &coretest.FakeEmbedder{}, 10)

	chunks, err := r.Retrieve(context.Background(), "doc-y", "query")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
}

func TestRetrieveNoMatchesIsEmptyNotError(t *testing.T) {
	db := coretest.NewFakeDB()
	db.SearchResult = []models.DocumentChunk{
		{DocumentID: "someone-else", Text: "irrelevant"},
	}
	r := NewRetriever(db, &coretest.FakeEmbedder{}, 3)

	chunks, err := r.Retrieve(context.Background(), "doc-with-no-chunks", "query")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRetrievePropagatesEmbedError(t *testing.T) {
	db := coretest.NewFakeDB()
	emb := &coretest.FakeEmbedder{Err: errors.New("quota exceeded")}
	r := NewRetriever(db, emb, 3)

	_, err := r.Retrieve(context.Background(), "doc-a", "query")
	require.Error(t, err)
}

func TestContextText(t *testing.T) {
	got := ContextText([]models.DocumentChunk{{Text: "a"}, {Text: "b"}})
	assert.Equal(t, "a\n---\nb\n---\n", got)
	assert.Empty(t, ContextText(nil))
}
