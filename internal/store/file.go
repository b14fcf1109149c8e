package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"bookshelf/internal/model"

	"go.uber.org/zap"
)

// FileStore keeps the whole catalog in a single JSON document.
// Every mutation loads the full set, changes it in memory and rewrites the
// file. It assumes exclusive access by one process and one goroutine.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore returns a store backed by the JSON file at path, creating the
// parent directory if needed. The file itself is created on the first write.
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create directory for %s: %w", ErrPersist, path, err)
	}
	return &FileStore{
		path:   path,
		logger: logger.With(zap.String("path", path)),
	}, nil
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Add assigns the next free id to book, stores it and writes the id back
// into *book once the file has been saved.
func (s *FileStore) Add(ctx context.Context, book *model.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !book.Status().Valid() {
		return fmt.Errorf("%w: %s", model.ErrInvalidStatus, book.Status())
	}

	books, err := s.load()
	if err != nil {
		return err
	}

	added := book.WithID(books.nextID())
	if err := s.save(append(books, added)); err != nil {
		return err
	}
	*book = added

	s.logger.Debug("Book added", zap.Int("id", added.ID()))
	return nil
}

// Remove deletes the book with the given id. Unknown ids are ignored.
func (s *FileStore) Remove(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	books, err := s.load()
	if err != nil {
		return err
	}

	rest, found := books.without(id)
	if !found {
		s.logger.Debug("Remove skipped, no such book", zap.Int("id", id))
		return nil
	}
	if err := s.save(rest); err != nil {
		return err
	}

	s.logger.Debug("Book removed", zap.Int("id", id))
	return nil
}

// Search returns the books matching q in stored order.
func (s *FileStore) Search(ctx context.Context, q Query) ([]model.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	books, err := s.load()
	if err != nil {
		return nil, err
	}
	return books.filter(q), nil
}

// UpdateStatus replaces the book with the given id by a copy carrying status.
// Unknown ids are ignored.
func (s *FileStore) UpdateStatus(ctx context.Context, id int, status model.BookStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %s", model.ErrInvalidStatus, status)
	}

	books, err := s.load()
	if err != nil {
		return err
	}

	updated, found := books.withStatus(id, status)
	if !found {
		s.logger.Debug("Status update skipped, no such book", zap.Int("id", id))
		return nil
	}
	if err := s.save(updated); err != nil {
		return err
	}

	s.logger.Debug("Status updated", zap.Int("id", id), zap.Stringer("status", status))
	return nil
}

// List returns every stored book in stored order.
func (s *FileStore) List(ctx context.Context) ([]model.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	books, err := s.load()
	if err != nil {
		return nil, err
	}
	return books, nil
}

// NextID returns the id the next Add would assign.
func (s *FileStore) NextID(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	books, err := s.load()
	if err != nil {
		return 0, err
	}
	return books.nextID(), nil
}

// load reads the full record set. A missing or blank file is an empty catalog.
func (s *FileStore) load() (records, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return records{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrPersist, s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return records{}, nil
	}

	var books records
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, s.path, err)
	}
	if books == nil {
		return nil, fmt.Errorf("%w: %s: expected a list of books", ErrDecode, s.path)
	}

	s.logger.Debug("Catalog loaded", zap.Int("books", len(books)))
	return books, nil
}

// save replaces the file with the full record set. The document is written
// to a sibling temp file first and renamed over the target.
func (s *FileStore) save(books records) error {
	if books == nil {
		books = records{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(books); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file for %s: %w", ErrPersist, s.path, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: failed to write %s: %w", ErrPersist, tmp.Name(), err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: failed to chmod %s: %w", ErrPersist, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %w", ErrPersist, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: failed to replace %s: %w", ErrPersist, s.path, err)
	}

	s.logger.Debug("Catalog saved", zap.Int("books", len(books)))
	return nil
}
