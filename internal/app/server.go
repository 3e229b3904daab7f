package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/eniola-bakare/notemark/internal/api/handlers"
	appMiddleware "github.com/eniola-bakare/notemark/internal/api/middlewares"
	"github.com/eniola-bakare/notemark/internal/config"
	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/answer"
	"github.com/eniola-bakare/notemark/internal/core/ingest"
	"github.com/eniola-bakare/notemark/internal/core/retrieval"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// ServerDeps bundles everything the route handlers need.
type ServerDeps struct {
	DB          core.DbClient
	Obj         core.ObjectClient
	Ingestor    ingest.Ingestor
	Extractor   core.DocumentExtractor
	LLM         core.LLMProvider
	Retriever   *retrieval.Retriever
	Synthesizer *answer.Synthesizer
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, deps *ServerDeps) *Server {
	authHandler := handlers.NewAuthHandler(deps.DB)
	docHandler := handlers.NewDocumentHandler(deps.DB, deps.Obj, deps.Ingestor, cfg)
	pdfHandler := handlers.NewPdfLoaderHandler(deps.Extractor, cfg.ChunkSize, cfg.ChunkOverlap)
	geminiHandler := handlers.NewGeminiHandler(deps.LLM)
	queryHandler := handlers.NewQueryHandler(deps.DB, deps.Retriever, deps.Synthesizer)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/signup", authHandler.Signup)
		api.Post("/login", authHandler.Login)
		api.Post("/pdf-loader", pdfHandler.LoadPdf)
		api.Post("/gemini", geminiHandler.Generate)
		api.Head("/gemini", geminiHandler.Health)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWTMiddleware)
			protected.Post("/documents/upload", docHandler.UploadDocument)
			protected.Get("/documents", docHandler.GetDocuments)
			protected.Post("/documents/{document_id}/repair", docHandler.RepairStorageURL)
			protected.Get("/documents/{document_id}/notes", queryHandler.GetNote)
			protected.Post("/query", queryHandler.QueryDocument)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
