// Package ingest owns chunk construction: it walks a stored document from
// raw bytes to an embedded, persisted chunk set tagged with the document id.
// Once the batch is handed to the store the pipeline holds no state; the
// store is the long-term owner of the vectors.
package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/chunker"
	"github.com/eniola-bakare/notemark/internal/core/faults"
	"github.com/eniola-bakare/notemark/internal/core/objectstore"
	"github.com/eniola-bakare/notemark/internal/models"
)

type Ingestor interface {
	Start(ctx context.Context, numWorkers int)
	Enqueue(docID string)
	ProcessOne(ctx context.Context, docID string) error
}

var _ Ingestor = (*DocumentIngestor)(nil)

// NewDocumentIngestor constructs the ingestor with a bounded job queue (64).
func NewDocumentIngestor(db core.DbClient, obj core.ObjectClient, emb core.EmbeddingProvider, extractor core.DocumentExtractor, splitter *chunker.Splitter, cfg *Config) *DocumentIngestor {
	return &DocumentIngestor{
		db: db, obj: obj, embedder: emb, extractor: extractor, splitter: splitter,
		cfg:  cfg.withDefaults(),
		jobs: make(chan string, 64),
	}
}

// Start launches numWorkers goroutines reading from the jobs channel.
// Workers run until ctx is cancelled; per-document errors are logged, not
// fatal. Two runs for different documents proceed fully in parallel; the
// core takes no lock against concurrent re-ingestion of the same id.
func (i *DocumentIngestor) Start(ctx context.Context, numWorkers int) {
	g, gctx := errgroup.WithContext(ctx)
	for w := 1; w <= numWorkers; w++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case docID := <-i.jobs:
					log.Printf("ingest: worker %d processing document %s", w, docID)
					if err := i.ProcessOne(gctx, docID); err != nil {
						log.Printf("ingest: document %s failed: %v", docID, err)
					}
				}
			}
		})
	}
	go func() {
		if err := g.Wait(); err != nil && err != context.Canceled {
			log.Printf("ingest: workers stopped: %v", err)
		}
	}()
}

// Enqueue schedules a document ID for ingestion.
// If the queue is full, this call blocks until space frees up.
func (i *DocumentIngestor) Enqueue(docID string) {
	i.jobs <- docID
}

// ProcessOne fetches, extracts, chunks, embeds and persists one document.
// The run is all-or-nothing: either the full batch lands under this id or
// the document's stored chunks are untouched and status is "failed".
func (i *DocumentIngestor) ProcessOne(ctx context.Context, docID string) error {
	proctx, cancel := context.WithTimeout(ctx, i.cfg.ProcessTimeout)
	defer cancel()

	doc, err := i.db.GetDocumentByID(proctx, docID)
	if err != nil {
		return fmt.Errorf("load document %s: %w", docID, err)
	}
	if doc == nil {
		return fmt.Errorf("document not found: %s", docID)
	}

	_ = i.db.UpdateDocumentStatus(proctx, docID, "processing")

	chunks, err := i.buildChunks(proctx, doc)
	if err != nil {
		i.markFailed(ctx, docID)
		return err
	}

	if err := i.embedAndStore(proctx, docID, chunks); err != nil {
		i.markFailed(ctx, docID)
		return err
	}

	return i.db.UpdateDocumentStatus(proctx, docID, "ready")
}

// buildChunks fetches the stored bytes and turns them into page-tagged
// chunks. Extraction runs synchronously under the processing deadline.
func (i *DocumentIngestor) buildChunks(ctx context.Context, doc *models.Document) ([]chunker.Chunk, error) {
	bucket, key := objectstore.ParseURL(doc.StorageURL)
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("document %s has unusable storage url %q", doc.ID, doc.StorageURL)
	}

	data, err := i.obj.GetFile(ctx, bucket, key)
	if err != nil {
		return nil, faults.AsTimeout("fetch document bytes",
			&faults.FetchError{URL: doc.StorageURL, Err: err})
	}

	pages, err := i.extractor.ExtractPages(ctx, data, doc.ContentType)
	if err != nil {
		return nil, err
	}

	return i.splitter.SplitPages(pages), nil
}

// embedAndStore embeds the whole chunk set in one call and swaps it in as
// one transaction. Every chunk of the run carries the same document id tag.
func (i *DocumentIngestor) embedAndStore(ctx context.Context, docID string, chunks []chunker.Chunk) error {
	if len(chunks) == 0 {
		// Nothing extractable. Supersede any previous run's chunks so the
		// stored state matches the current document content.
		return i.db.ReplaceDocumentChunks(ctx, docID, nil)
	}

	texts := make([]string, len(chunks))
	for idx, ch := range chunks {
		texts[idx] = ch.Text
	}

	embedCtx, cancelEmbed := context.WithTimeout(ctx, i.cfg.EmbedTimeout)
	defer cancelEmbed()
	vecs, err := i.embedder.EmbedTexts(embedCtx, texts)
	if err != nil {
		return faults.AsTimeout("embed batch", err)
	}
	if len(vecs) != len(chunks) {
		return &faults.EmbeddingServiceError{
			Err: fmt.Errorf("got %d vectors for %d chunks", len(vecs), len(chunks)),
		}
	}

	now := time.Now()
	records := make([]models.DocumentChunk, len(chunks))
	for idx, ch := range chunks {
		records[idx] = models.DocumentChunk{
			ID:         uuid.NewString(),
			DocumentID: docID,
			Position:   ch.Index,
			Page:       ch.Page,
			Text:       ch.Text,
			Embedding:  vecs[idx],
			TokenCount: approxTokens(ch.Text),
			CreatedAt:  now,
		}
	}

	storeCtx, cancelStore := context.WithTimeout(ctx, i.cfg.StoreTimeout)
	defer cancelStore()
	if err := i.db.ReplaceDocumentChunks(storeCtx, docID, records); err != nil {
		return faults.AsTimeout("store batch", &faults.EmbeddingServiceError{Err: err})
	}
	return nil
}

func (i *DocumentIngestor) markFailed(ctx context.Context, docID string) {
	// Status write gets its own short deadline; the processing ctx may
	// already be dead.
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := i.db.UpdateDocumentStatus(sctx, docID, "failed"); err != nil {
		log.Printf("ingest: could not mark %s failed: %v", docID, err)
	}
}

// approxTokens is a cheap token estimator (~4 chars per token).
func approxTokens(s string) int {
	n := len([]rune(strings.TrimSpace(s)))
	if n <= 0 {
		return 0
	}
	return (n + 3) / 4
}
