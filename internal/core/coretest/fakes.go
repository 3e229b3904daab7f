// Package coretest holds hand-rolled fakes for the core ports, shared by
// the pipeline and handler tests.
package coretest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/models"
)

// FakeDB is an in-memory core.DbClient.
type FakeDB struct {
	mu sync.Mutex

	Users  map[string]*models.User     // by email
	Docs   map[string]*models.Document // by id
	Chunks map[string][]models.DocumentChunk
	Notes  map[string]*models.Note // by documentID+"|"+createdBy

	SearchResult []models.DocumentChunk
	SearchErr    error
	ReplaceErr   error

	ReplaceCalls int
	StatusLog    []string // "docID:status" in call order
}

func NewFakeDB() *FakeDB {
	return &FakeDB{
		Users:  map[string]*models.User{},
		Docs:   map[string]*models.Document{},
		Chunks: map[string][]models.DocumentChunk{},
		Notes:  map[string]*models.Note{},
	}
}

func (f *FakeDB) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Users[user.Email]; ok {
		return fmt.Errorf("user exists: %s", user.Email)
	}
	f.Users[user.Email] = user
	return nil
}

func (f *FakeDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Users[email], nil
}

func (f *FakeDB) CreateDocument(ctx context.Context, doc *models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Docs[doc.ID] = doc
	return nil
}

func (f *FakeDB) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Docs[id], nil
}

func (f *FakeDB) ListDocumentsByUser(ctx context.Context, userID string) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Document
	for _, d := range f.Docs {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *FakeDB) UpdateDocumentStatus(ctx context.Context, id string, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.Docs[id]
	if !ok {
		return fmt.Errorf("document not found: %s", id)
	}
	d.Status = status
	f.StatusLog = append(f.StatusLog, id+":"+status)
	return nil
}

func (f *FakeDB) UpdateDocumentStorageURL(ctx context.Context, id string, storageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.Docs[id]
	if !ok {
		return fmt.Errorf("document not found: %s", id)
	}
	d.StorageURL = storageURL
	return nil
}

func (f *FakeDB) ReplaceDocumentChunks(ctx context.Context, documentID string, chunks []models.DocumentChunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReplaceCalls++
	if f.ReplaceErr != nil {
		return f.ReplaceErr
	}
	f.Chunks[documentID] = append([]models.DocumentChunk(nil), chunks...)
	return nil
}

func (f *FakeDB) GetChunksByDocument(ctx context.Context, documentID string) ([]models.DocumentChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.DocumentChunk(nil), f.Chunks[documentID]...), nil
}

func (f *FakeDB) SearchChunks(ctx context.Context, queryVec []float32, limit int) ([]models.DocumentChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	res := f.SearchResult
	if len(res) > limit {
		res = res[:limit]
	}
	return append([]models.DocumentChunk(nil), res...), nil
}

func (f *FakeDB) GetNote(ctx context.Context, documentID, createdBy string) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Notes[documentID+"|"+createdBy], nil
}

func (f *FakeDB) SaveNote(ctx context.Context, note *models.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Notes[note.DocumentID+"|"+note.CreatedBy] = note
	return nil
}

func (f *FakeDB) Close() error { return nil }

var _ core.DbClient = (*FakeDB)(nil)

// FakeEmbedder returns Dim-wide zero vectors, or Err.
type FakeEmbedder struct {
	Dim   int
	Err   error
	Calls [][]string
}

func (f *FakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.Calls = append(f.Calls, texts)
	if f.Err != nil {
		return nil, f.Err
	}
	dim := f.Dim
	if dim == 0 {
		dim = 4
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, dim)
	}
	return out, nil
}

var _ core.EmbeddingProvider = (*FakeEmbedder)(nil)

// FakeLLM replays a canned response and records prompts.
type FakeLLM struct {
	Response string
	Err      error
	Prompts  []string
}

func (f *FakeLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.Prompts = append(f.Prompts, userPrompt)
	return f.Response, f.Err
}

func (f *FakeLLM) GenerateWithConfig(ctx context.Context, prompt string, maxTokens int32, temperature float32) (string, error) {
	f.Prompts = append(f.Prompts, prompt)
	return f.Response, f.Err
}

var _ core.LLMProvider = (*FakeLLM)(nil)

// FakeObjectStore keeps objects in a map keyed bucket+"/"+key.
type FakeObjectStore struct {
	Files  map[string][]byte
	GetErr error
}

func NewFakeObjectStore() *FakeObjectStore {
	return &FakeObjectStore{Files: map[string][]byte{}}
}

func (f *FakeObjectStore) UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	f.Files[bucket+"/"+key] = b
	return f.ObjectURL(bucket, key), nil
}

func (f *FakeObjectStore) DeleteFile(ctx context.Context, bucket, key string) error {
	delete(f.Files, bucket+"/"+key)
	return nil
}

func (f *FakeObjectStore) GetFile(ctx context.Context, bucket, key string) ([]byte, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	b, ok := f.Files[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("object not found: %s/%s", bucket, key)
	}
	return b, nil
}

func (f *FakeObjectStore) StatFile(ctx context.Context, bucket, key string) error {
	if _, ok := f.Files[bucket+"/"+key]; !ok {
		return fmt.Errorf("object not found: %s/%s", bucket, key)
	}
	return nil
}

func (f *FakeObjectStore) ObjectURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.test-region.amazonaws.com/%s", bucket, key)
}

var _ core.ObjectClient = (*FakeObjectStore)(nil)

// FakeExtractor returns canned pages.
type FakeExtractor struct {
	Pages []core.PageText
	Err   error
}

func (f *FakeExtractor) ExtractPages(ctx context.Context, data []byte, contentType string) ([]core.PageText, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Pages, nil
}

var _ core.DocumentExtractor = (*FakeExtractor)(nil)
