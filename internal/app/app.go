package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/eniola-bakare/notemark/internal/config"
	"github.com/eniola-bakare/notemark/internal/core/answer"
	"github.com/eniola-bakare/notemark/internal/core/chunker"
	db "github.com/eniola-bakare/notemark/internal/core/database"
	"github.com/eniola-bakare/notemark/internal/core/extract"
	"github.com/eniola-bakare/notemark/internal/core/ingest"
	"github.com/eniola-bakare/notemark/internal/core/llm"
	"github.com/eniola-bakare/notemark/internal/core/objectstore"
	"github.com/eniola-bakare/notemark/internal/core/retrieval"
)

type App struct {
	DBClient  *db.DatabaseClient
	Ingestor  *ingest.DocumentIngestor
	Server    *Server
	Embedder  *llm.GeminiEmbedder
	Generator *llm.GeminiLLM
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	objClient, err := objectstore.NewS3Client(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Object client initialized and ready.")

	geminiEmbedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
	}

	llmProvider, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the generative model, %w", err)
	}

	useReadability := false
	documentExtractor := extract.NewExtractor(useReadability)

	splitter, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("bad chunking config: %w", err)
	}

	docIngestor := ingest.NewDocumentIngestor(dbClient, objClient, geminiEmbedder, documentExtractor, splitter, nil)

	retriever := retrieval.NewRetriever(dbClient, geminiEmbedder, cfg.RetrieveTopK)
	synthesizer := answer.NewSynthesizer(llmProvider)

	server := NewServer(cfg, &ServerDeps{
		DB:          dbClient,
		Obj:         objClient,
		Ingestor:    docIngestor,
		Extractor:   documentExtractor,
		LLM:         llmProvider,
		Retriever:   retriever,
		Synthesizer: synthesizer,
	})

	return &App{
		DBClient:  dbClient.(*db.DatabaseClient),
		Ingestor:  docIngestor,
		Server:    server,
		Embedder:  geminiEmbedder,
		Generator: llmProvider,
	}, nil
}

func (a *App) Close() {
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
	if a.Generator != nil {
		_ = a.Generator.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
