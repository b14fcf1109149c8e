package store

import (
	"context"
	"errors"

	"bookshelf/internal/model"
)

var (
	// ErrDecode is returned when the catalog file cannot be parsed into books.
	ErrDecode = errors.New("malformed catalog data")
	// ErrPersist is returned when the catalog file cannot be read or written.
	// After a failed write the persisted state should be treated as unknown.
	ErrPersist = errors.New("catalog storage failure")
)

// Store is the set of operations every catalog backend provides.
// Remove and UpdateStatus on an unknown id succeed without changing anything.
type Store interface {
	Add(ctx context.Context, book *model.Book) error
	Remove(ctx context.Context, id int) error
	Search(ctx context.Context, q Query) ([]model.Book, error)
	UpdateStatus(ctx context.Context, id int, status model.BookStatus) error
	List(ctx context.Context) ([]model.Book, error)
}
