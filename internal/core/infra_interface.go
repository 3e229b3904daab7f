package core

import (
	"context"
	"io"

	"github.com/eniola-bakare/notemark/internal/models"
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) (err error)
	GetUserByEmail(ctx context.Context, email string) (user *models.User, err error)

	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocumentByID(ctx context.Context, id string) (*models.Document, error)
	ListDocumentsByUser(ctx context.Context, userID string) ([]models.Document, error)
	UpdateDocumentStatus(ctx context.Context, id string, status string) error
	UpdateDocumentStorageURL(ctx context.Context, id string, storageURL string) error

	// ReplaceDocumentChunks swaps a document's chunk set in one transaction.
	// A re-ingestion run supersedes earlier chunks; there is never a state
	// where a document holds a partial batch.
	ReplaceDocumentChunks(ctx context.Context, documentID string, chunks []models.DocumentChunk) error
	GetChunksByDocument(ctx context.Context, documentID string) ([]models.DocumentChunk, error)

	// SearchChunks returns the top-k nearest chunks for the query vector
	// across the whole index. Per-document filtering happens client-side.
	SearchChunks(ctx context.Context, queryVec []float32, limit int) ([]models.DocumentChunk, error)

	GetNote(ctx context.Context, documentID, createdBy string) (*models.Note, error)
	SaveNote(ctx context.Context, note *models.Note) error

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// Abstract so AWS can be swapped for MinIO, GCP, etc.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)

	// StatFile reports whether the object exists and is readable.
	StatFile(ctx context.Context, bucket, key string) error
	// ObjectURL reconstructs the public URL for a stored object.
	ObjectURL(bucket, key string) string
}
