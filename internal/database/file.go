package database

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"sals-backend/internal/apperr"
	"sals-backend/internal/logging"
	"sals-backend/internal/models"
)

// FileStore keeps the document in a single JSON file guarded by one mutex.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads the file, creating it with an empty document when it does not
// exist yet. Malformed content is reported, never repaired.
func (s *FileStore) Load(ctx context.Context) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

// Save replaces the file content with doc.
func (s *FileStore) Save(ctx context.Context, doc *models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(doc)
}

// Update holds the lock from the read to the write so concurrent callers
// cannot overwrite each other's changes.
func (s *FileStore) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}

func (s *FileStore) Close(context.Context) error {
	return nil
}

func (s *FileStore) read() (*models.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.WithModule("database").WithField("path", s.path).Info("document file missing, initialising")
		doc := models.NewDocument()
		if err := s.write(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, apperr.Storage(err, "read %s", s.path)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperr.Storage(err, "decode %s", s.path)
	}
	doc.Normalize()
	return &doc, nil
}

// write goes through a temp file in the same directory and a rename, so a
// crash mid-write leaves the previous content in place.
func (s *FileStore) write(doc *models.Document) error {
	doc.Normalize()

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return apperr.Storage(err, "encode document")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.Storage(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return apperr.Storage(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperr.Storage(err, "write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperr.Storage(err, "sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return apperr.Storage(err, "close %s", tmpName)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return apperr.Storage(err, "replace %s", s.path)
	}
	return nil
}

// Ping checks that the directory holding the file exists.
func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return apperr.Storage(err, "stat %s", filepath.Dir(s.path))
	}
	if !info.IsDir() {
		return apperr.Storage(errors.New("not a directory"), "stat %s", filepath.Dir(s.path))
	}
	return nil
}
