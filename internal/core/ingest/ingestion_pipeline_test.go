package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/chunker"
	"github.com/eniola-bakare/notemark/internal/core/coretest"
	"github.com/eniola-bakare/notemark/internal/core/faults"
	"github.com/eniola-bakare/notemark/internal/models"
)

func newTestIngestor(t *testing.T, db *coretest.FakeDB, obj *coretest.FakeObjectStore, emb *coretest.FakeEmbedder, ext *coretest.FakeExtractor) *DocumentIngestor {
	t.Helper()
	sp, err := chunker.New(200, 40)
	require.NoError(t, err)
	return NewDocumentIngestor(db, obj, emb, ext, sp, nil)
}

func seedDocument(db *coretest.FakeDB, obj *coretest.FakeObjectStore, id string) *models.Document {
	key := "user-1/" + id + "/file.pdf"
	obj.Files["notemark-docs/"+key] = []byte("%PDF-stub")
	doc := &models.Document{
		ID:          id,
		UserID:      "user-1",
		FileName:    "file.pdf",
		StorageURL:  obj.ObjectURL("notemark-docs", key),
		ContentType: "application/pdf",
		Status:      "uploaded",
	}
	db.Docs[id] = doc
	return doc
}

func TestProcessOneSuccess(t *testing.T) {
	db := coretest.NewFakeDB()
	obj := coretest.NewFakeObjectStore()
	emb := &coretest.FakeEmbedder{Dim: 8}
	ext := &coretest.FakeExtractor{Pages: []core.PageText{
		{Page: 1, Text: strings.Repeat("alpha beta gamma ", 30)},
		{Page: 2, Text: strings.Repeat("delta epsilon ", 25)},
	}}
	ing := newTestIngestor(t, db, obj, emb, ext)
	seedDocument(db, obj, "doc-1")

	require.NoError(t, ing.ProcessOne(context.Background(), "doc-1"))

	assert.Equal(t, "ready", db.Docs["doc-1"].Status)
	assert.Equal(t, []string{"doc-1:processing", "doc-1:ready"}, db.StatusLog)

	stored := db.Chunks["doc-1"]
	require.NotEmpty(t, stored)
	for i, ch := range stored {
		assert.Equal(t, "doc-1", ch.DocumentID, "every chunk tagged with the run's document id")
		assert.Equal(t, i, ch.Position)
		assert.NotEmpty(t, ch.ID)
		assert.Len(t, ch.Embedding, 8)
		assert.NotZero(t, ch.Page)
	}

	// One batch embed call carrying every chunk text.
	require.Len(t, emb.Calls, 1)
	assert.Len(t, emb.Calls[0], len(stored))
}

func TestProcessOneSupersedesPriorRun(t *testing.T) {
	db := coretest.NewFakeDB()
	obj := coretest.NewFakeObjectStore()
	emb := &coretest.FakeEmbedder{}
	ext := &coretest.FakeExtractor{Pages: []core.PageText{{Page: 1, Text: "fresh content after re-upload"}}}
	ing := newTestIngestor(t, db, obj, emb, ext)
	seedDocument(db, obj, "doc-1")
	db.Chunks["doc-1"] = []models.DocumentChunk{{ID: "stale", DocumentID: "doc-1", Text: "old"}}

	require.NoError(t, ing.ProcessOne(context.Background(), "doc-1"))

	stored := db.Chunks["doc-1"]
	require.Len(t, stored, 1)
	assert.Equal(t, "fresh content after re-upload", stored[0].Text)
}

func TestProcessOneEmbedFailureLeavesNoPartialState(t *testing.T) {
	db := coretest.NewFakeDB()
	obj := coretest.NewFakeObjectStore()
	emb := &coretest.FakeEmbedder{Err: &faults.EmbeddingServiceError{Err: errors.New("quota exhausted")}}
	ext := &coretest.FakeExtractor{Pages: []core.PageText{{Page: 1, Text: "some text"}}}
	ing := newTestIngestor(t, db, obj, emb, ext)
	seedDocument(db, obj, "doc-1")

	err := ing.ProcessOne(context.Background(), "doc-1")
	require.Error(t, err)
	var embErr *faults.EmbeddingServiceError
	assert.ErrorAs(t, err, &embErr)

	assert.Equal(t, "failed", db.Docs["doc-1"].Status)
	assert.Zero(t, db.ReplaceCalls, "store must not be touched when embedding fails")
	assert.Empty(t, db.Chunks["doc-1"])
}

// stallingEmbedder never answers; it waits out the call's deadline and
// surfaces the context error.
type stallingEmbedder struct{}

func (stallingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestProcessOneEmbedDeadlineIsTimeoutError(t *testing.T) {
	db := coretest.NewFakeDB()
	obj := coretest.NewFakeObjectStore()
	ext := &coretest.FakeExtractor{Pages: []core.PageText{{Page: 1, Text: "some text"}}}
	sp, err := chunker.New(200, 40)
	require.NoError(t, err)
	ing := NewDocumentIngestor(db, obj, stallingEmbedder{}, ext, sp,
		&Config{EmbedTimeout: 20 * time.Millisecond})
	seedDocument(db, obj, "doc-1")

	err = ing.ProcessOne(context.Background(), "doc-1")
	require.Error(t, err)
	var toErr *faults.TimeoutError
	assert.ErrorAs(t, err, &toErr, "expired deadline must surface as TimeoutError")

	assert.Equal(t, "failed", db.Docs["doc-1"].Status)
	assert.Zero(t, db.ReplaceCalls)
	assert.Empty(t, db.Chunks["doc-1"])
}

func TestProcessOneStoreFailure(t *testing.T) {
	db := coretest.NewFakeDB()
	db.ReplaceErr = errors.New("connection reset")
	obj := coretest.NewFakeObjectStore()
	ext := &coretest.FakeExtractor{Pages: []core.PageText{{Page: 1, Text: "some text"}}}
	ing := newTestIngestor(t, db, obj, &coretest.FakeEmbedder{}, ext)
	seedDocument(db, obj, "doc-1")

	err := ing.ProcessOne(context.Background(), "doc-1")
	require.Error(t, err)
	var embErr *faults.EmbeddingServiceError
	assert.ErrorAs(t, err, &embErr)
	assert.Equal(t, "failed", db.Docs["doc-1"].Status)
}

func TestProcessOneExtractionFailure(t *testing.T) {
	db := coretest.NewFakeDB()
	obj := coretest.NewFakeObjectStore()
	emb := &coretest.FakeEmbedder{}
	ext := &coretest.FakeExtractor{Err: &faults.ExtractionError{Err: errors.New("not a pdf")}}
	ing := newTestIngestor(t, db, obj, emb, ext)
	seedDocument(db, obj, "doc-1")

	err := ing.ProcessOne(context.Background(), "doc-1")
	require.Error(t, err)
	var exErr *faults.ExtractionError
	assert.ErrorAs(t, err, &exErr)
	assert.Equal(t, "failed", db.Docs["doc-1"].Status)
	assert.Empty(t, emb.Calls, "nothing to embed after failed extraction")
}

func TestProcessOneFetchFailure(t *testing.T) {
	db := coretest.NewFakeDB()
	obj := coretest.NewFakeObjectStore()
	obj.GetErr = fmt.Errorf("object not found")
	ext := &coretest.FakeExtractor{}
	ing := newTestIngestor(t, db, obj, &coretest.FakeEmbedder{}, ext)
	seedDocument(db, obj, "doc-1")

	err := ing.ProcessOne(context.Background(), "doc-1")
	require.Error(t, err)
	var fetchErr *faults.FetchError
	assert.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "failed", db.Docs["doc-1"].Status)
}

func TestProcessOneUnknownDocument(t *testing.T) {
	db := coretest.NewFakeDB()
	ing := newTestIngestor(t, db, coretest.NewFakeObjectStore(), &coretest.FakeEmbedder{}, &coretest.FakeExtractor{})

	require.Error(t, ing.ProcessOne(context.Background(), "missing"))
}

func TestProcessOneEmptyDocumentIsReadyWithNoChunks(t *testing.T) {
	db := coretest.NewFakeDB()
	obj := coretest.NewFakeObjectStore()
	emb := &coretest.FakeEmbedder{}
	ext := &coretest.FakeExtractor{Pages: nil}
	ing := newTestIngestor(t, db, obj, emb, ext)
	seedDocument(db, obj, "doc-1")
	db.Chunks["doc-1"] = []models.DocumentChunk{{ID: "stale", DocumentID: "doc-1"}}

	require.NoError(t, ing.ProcessOne(context.Background(), "doc-1"))
	assert.Equal(t, "ready", db.Docs["doc-1"].Status)
	assert.Empty(t, db.Chunks["doc-1"], "empty run supersedes stale chunks")
	assert.Empty(t, emb.Calls)
}
