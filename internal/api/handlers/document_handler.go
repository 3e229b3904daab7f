package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	middleware "github.com/eniola-bakare/notemark/internal/api/middlewares"
	"github.com/eniola-bakare/notemark/internal/config"
	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/ingest"
	"github.com/eniola-bakare/notemark/internal/models"
)

type DocumentHandler struct {
	dbclient     core.DbClient
	objectclient core.ObjectClient
	ingestor     ingest.Ingestor
	cfg          *config.Config
}

func NewDocumentHandler(dbclient core.DbClient, objectclient core.ObjectClient, ing ingest.Ingestor, cfg *config.Config) *DocumentHandler {
	return &DocumentHandler{dbclient: dbclient, objectclient: objectclient, ingestor: ing, cfg: cfg}
}

// UploadDocument handles file upload, DB insert, and background processing.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(52 << 20)

	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Sanitize filename to prevent path traversal or invalid characters.
	cleanFilename := filepath.Base(header.Filename)
	docID := uuid.NewString()

	// The key ties the object back to its owner and document row, so a lost
	// storage URL can always be rebuilt from metadata alone.
	s3Key := storageKey(userID, docID, cleanFilename)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	url, err := h.objectclient.UploadFile(uploadctx, h.cfg.BucketName, s3Key, file, contentType)
	if err != nil {
		http.Error(w, fmt.Sprintf("upload failed: %v", err), 500)
		return
	}

	doc := &models.Document{
		ID:          docID,
		UserID:      userID,
		FileName:    cleanFilename,
		StorageURL:  url,
		SourceType:  "upload",
		Status:      "uploaded",
		ContentType: contentType,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := h.dbclient.CreateDocument(uploadctx, doc); err != nil {
		log.Printf("DB insert failed for doc %s: %v", docID, err)
		http.Error(w, fmt.Sprintf("failed to store document metadata: %v", err), http.StatusInternalServerError)
		return
	}

	h.ingestor.Enqueue(doc.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	documents, err := h.dbclient.ListDocumentsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(documents)
}

// RepairStorageURL rebuilds a document's storage URL from its metadata and
// verifies the object still exists. Only the URL column changes; status and
// stored chunks are untouched because the document identity is the row id,
// never the URL.
func (h *DocumentHandler) RepairStorageURL(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	docID := chi.URLParam(r, "document_id")
	doc, err := h.dbclient.GetDocumentByID(r.Context(), docID)
	if err != nil || doc == nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	if doc.UserID != userID {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	key := storageKey(doc.UserID, doc.ID, doc.FileName)
	if err := h.objectclient.StatFile(r.Context(), h.cfg.BucketName, key); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "unrepairable",
			"error":  "stored object not found for this document",
		})
		return
	}

	url := h.objectclient.ObjectURL(h.cfg.BucketName, key)
	if err := h.dbclient.UpdateDocumentStorageURL(r.Context(), doc.ID, url); err != nil {
		http.Error(w, fmt.Sprintf("failed to update storage url: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":      "repaired",
		"storage_url": url,
	})
}

// storageKey is the canonical object key layout: userID/docID/filename.
func storageKey(userID, docID, filename string) string {
	return fmt.Sprintf("%s/%s/%s", userID, docID, filename)
}
