package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"bookshelf/internal/model"
)

// MemoryStore is a Store that keeps books in memory only.
// It follows the same id allocation and search rules as FileStore.
type MemoryStore struct {
	mu    sync.RWMutex
	books records
}

// NewMemoryStore returns a MemoryStore holding seed in the given order.
func NewMemoryStore(seed ...model.Book) *MemoryStore {
	return &MemoryStore{books: slices.Clone(records(seed))}
}

func (m *MemoryStore) Add(ctx context.Context, book *model.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !book.Status().Valid() {
		return fmt.Errorf("%w: %s", model.ErrInvalidStatus, book.Status())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	*book = book.WithID(m.books.nextID())
	m.books = append(m.books, *book)
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if rest, found := m.books.without(id); found {
		m.books = rest
	}
	return nil
}

func (m *MemoryStore) Search(ctx context.Context, q Query) ([]model.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.books.filter(q), nil
}

func (m *MemoryStore) UpdateStatus(ctx context.Context, id int, status model.BookStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %s", model.ErrInvalidStatus, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if updated, found := m.books.withStatus(id, status); found {
		m.books = updated
	}
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]model.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Book, len(m.books))
	copy(out, m.books)
	return out, nil
}
