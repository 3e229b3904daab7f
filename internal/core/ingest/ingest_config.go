package ingest

import (
	"time"

	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/chunker"
)

// Config tunes the ingestion pipeline.
//
// ProcessTimeout bounds one full document run (fetch, extract, embed, store);
// EmbedTimeout and StoreTimeout bound the individual external calls inside it.
type Config struct {
	ProcessTimeout time.Duration
	EmbedTimeout   time.Duration
	StoreTimeout   time.Duration
}

func (c *Config) withDefaults() Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if out.ProcessTimeout <= 0 {
		out.ProcessTimeout = 5 * time.Minute
	}
	if out.EmbedTimeout <= 0 {
		out.EmbedTimeout = 2 * time.Minute
	}
	if out.StoreTimeout <= 0 {
		out.StoreTimeout = time.Minute
	}
	return out
}

// DocumentIngestor orchestrates the ingestion pipeline:
//
// db:        persistence for documents and chunk vectors.
// obj:       object storage holding the uploaded bytes.
// embedder:  embedding provider (one batch call per run).
// extractor: byte stream -> ordered page texts.
// splitter:  validated chunking parameters.
// jobs:      in-memory queue of document IDs to process.
type DocumentIngestor struct {
	db        core.DbClient
	obj       core.ObjectClient
	embedder  core.EmbeddingProvider
	extractor core.DocumentExtractor
	splitter  *chunker.Splitter
	cfg       Config
	jobs      chan string
}
