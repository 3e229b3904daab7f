package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	middleware "github.com/eniola-bakare/notemark/internal/api/middlewares"
	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/answer"
	"github.com/eniola-bakare/notemark/internal/core/faults"
	"github.com/eniola-bakare/notemark/internal/core/retrieval"
	"github.com/eniola-bakare/notemark/internal/models"
)

// QueryHandler runs the full query path: retrieve grounded chunks for a
// document, synthesize an answer, and append the formatted block to the
// caller's note for that document.
type QueryHandler struct {
	dbclient    core.DbClient
	retriever   *retrieval.Retriever
	synthesizer *answer.Synthesizer
}

func NewQueryHandler(db core.DbClient, ret *retrieval.Retriever, syn *answer.Synthesizer) *QueryHandler {
	return &QueryHandler{dbclient: db, retriever: ret, synthesizer: syn}
}

type queryRequest struct {
	DocumentID string `json:"document_id"`
	Query      string `json:"query"`
}

type queryResponse struct {
	Answer     string `json:"answer"`
	AnswerHTML string `json:"answer_html"`
	NoteID     string `json:"note_id"`
}

func (h *QueryHandler) QueryDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserID(ctx)
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", 400)
		return
	}
	if req.DocumentID == "" || req.Query == "" {
		http.Error(w, "document_id and query are required", 400)
		return
	}

	// Confirm document belongs to user
	doc, err := h.dbclient.GetDocumentByID(ctx, req.DocumentID)
	if err != nil || doc == nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	if doc.UserID != userID {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	chunks, err := h.retriever.Retrieve(ctx, req.DocumentID, req.Query)
	if err != nil {
		http.Error(w, fmt.Sprintf("retrieval failed: %v", err), 500)
		return
	}
	if len(chunks) == 0 {
		// The note stays untouched; nothing grounded means nothing written.
		http.Error(w, "no answer generated: no relevant content found in this document",
			http.StatusUnprocessableEntity)
		return
	}

	res, err := h.synthesizer.Synthesize(ctx, req.Query, retrieval.ContextText(chunks))
	if err != nil {
		var genErr *faults.GenerationError
		if errors.As(err, &genErr) {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		http.Error(w, err.Error(), 500)
		return
	}

	noteID, err := h.appendToNote(r, req.DocumentID, userID, res.HTML)
	if err != nil {
		log.Printf("query: note append failed for doc %s: %v", req.DocumentID, err)
		http.Error(w, "answer generated but could not be saved", 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(queryResponse{
		Answer:     res.Raw,
		AnswerHTML: res.HTML,
		NoteID:     noteID,
	})
}

// appendToNote upserts the (document, author) note with the new block
// appended at the end.
func (h *QueryHandler) appendToNote(r *http.Request, documentID, userID, html string) (string, error) {
	ctx := r.Context()

	note, err := h.dbclient.GetNote(ctx, documentID, userID)
	if err != nil {
		return "", err
	}
	if note == nil {
		note = &models.Note{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			CreatedBy:  userID,
			CreatedAt:  time.Now(),
		}
	}

	note.Content += html
	note.UpdatedAt = time.Now()

	if err := h.dbclient.SaveNote(ctx, note); err != nil {
		return "", err
	}
	return note.ID, nil
}

func (h *QueryHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	docID := chi.URLParam(r, "document_id")
	doc, err := h.dbclient.GetDocumentByID(r.Context(), docID)
	if err != nil || doc == nil || doc.UserID != userID {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	note, err := h.dbclient.GetNote(r.Context(), docID, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if note == nil {
		http.Error(w, "no note for this document", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(note)
}
