package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"bookshelf/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	st, err := NewFileStore(filepath.Join(t.TempDir(), "books.json"), zap.NewNop())
	require.NoError(t, err)
	return st
}

func writeCatalog(t *testing.T, st *FileStore, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(st.Path(), []byte(content), 0o644))
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	st := newFileStore(t)
	ctx := context.Background()

	books, err := st.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	next, err := st.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestFileStore_BlankFileIsEmpty(t *testing.T) {
	st := newFileStore(t)
	writeCatalog(t, st, " \n")

	books, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestFileStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "books.json")
	st, err := NewFileStore(path, nil)
	require.NoError(t, err)

	book := model.NewBook("Дерсу Узала", "Арсеньев", 1936)
	require.NoError(t, st.Add(context.Background(), &book))
	assert.FileExists(t, path)
}

func TestFileStore_FileFormat(t *testing.T) {
	st := newFileStore(t)
	ctx := context.Background()

	book := model.NewBook("Что делать?", "Чернышевский", 1985)
	require.NoError(t, st.Add(ctx, &book))
	require.NoError(t, st.UpdateStatus(ctx, book.ID(), model.StatusIssued))

	data, err := os.ReadFile(st.Path())
	require.NoError(t, err)

	want := `[
    {
        "pk": 1,
        "title": "Что делать?",
        "author": "Чернышевский",
        "year": 1985,
        "status": "2"
    }
]
`
	assert.Equal(t, want, string(data))

	info, err := os.Stat(st.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestFileStore_ReadsEscapedDocument(t *testing.T) {
	st := newFileStore(t)
	writeCatalog(t, st, `[
    {
        "pk": 7,
        "title": "\u0414\u0435\u0440\u0441\u0443 \u0423\u0437\u0430\u043b\u0430",
        "author": "Арсеньев",
        "year": 1936,
        "status": "1"
    }
]`)
	ctx := context.Background()

	books, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "7: Дерсу Узала, Арсеньев, 1936 | AVAILABLE", books[0].String())

	next, err := st.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, next)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	ctx := context.Background()

	first, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	added := addAll(t, first, classics()...)

	second, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	books, err := second.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, added, books)
}

func TestFileStore_MalformedDocument(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "books"},
		{name: "truncated", content: `[{"pk": 1, "title": "t"`},
		{name: "object instead of list", content: `{"pk":1,"title":"t","author":"a","year":1,"status":"1"}`},
		{name: "null document", content: "null"},
		{name: "bad status", content: `[{"pk":1,"title":"t","author":"a","year":1,"status":"3"}]`},
		{name: "missing field", content: `[{"pk":1,"title":"t","author":"a","status":"1"}]`},
		{name: "unknown field", content: `[{"pk":1,"title":"t","author":"a","year":1,"status":"1","isbn":""}]`},
		{name: "one bad record spoils the load", content: `[
			{"pk":1,"title":"t","author":"a","year":1,"status":"1"},
			{"pk":2,"title":"t","author":"a","year":1,"status":"x"}
		]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := newFileStore(t)
			writeCatalog(t, st, tc.content)
			ctx := context.Background()

			_, err := st.List(ctx)
			assert.ErrorIs(t, err, ErrDecode)

			_, err = st.Search(ctx, Query{})
			assert.ErrorIs(t, err, ErrDecode)

			book := model.NewBook("t", "a", 1)
			assert.ErrorIs(t, st.Add(ctx, &book), ErrDecode)
			assert.ErrorIs(t, st.Remove(ctx, 1), ErrDecode)
			assert.ErrorIs(t, st.UpdateStatus(ctx, 1, model.StatusIssued), ErrDecode)

			_, err = st.NextID(ctx)
			assert.ErrorIs(t, err, ErrDecode)

			data, err := os.ReadFile(st.Path())
			require.NoError(t, err)
			assert.Equal(t, tc.content, string(data), "a failed load never rewrites the file")
		})
	}
}

func TestFileStore_InvalidStatusInFileWrapsValidation(t *testing.T) {
	st := newFileStore(t)
	writeCatalog(t, st, `[{"pk":1,"title":"t","author":"a","year":1,"status":"9"}]`)

	_, err := st.List(context.Background())
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestFileStore_ReadFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	st, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	_, err = st.List(context.Background())
	assert.ErrorIs(t, err, ErrPersist)
}

func TestFileStore_WriteFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	st, err := NewFileStore(filepath.Join(dir, "books.json"), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	book := model.NewBook("t", "a", 1)
	err = st.Add(context.Background(), &book)
	assert.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, 0, book.ID(), "id is only assigned after a successful save")
}

func TestFileStore_NoopsDoNotCreateFile(t *testing.T) {
	st := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, st.Remove(ctx, 1))
	require.NoError(t, st.UpdateStatus(ctx, 1, model.StatusIssued))

	assert.NoFileExists(t, st.Path())
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	st := newFileStore(t)
	ctx := context.Background()
	addAll(t, st, classics()...)
	require.NoError(t, st.Remove(ctx, 2))
	require.NoError(t, st.UpdateStatus(ctx, 1, model.StatusIssued))

	entries, err := os.ReadDir(filepath.Dir(st.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "books.json", entries[0].Name())
}

func TestFileStore_RemoveAllLeavesEmptyList(t *testing.T) {
	st := newFileStore(t)
	ctx := context.Background()
	book := model.NewBook("t", "a", 1)
	require.NoError(t, st.Add(ctx, &book))
	require.NoError(t, st.Remove(ctx, book.ID()))

	data, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	next, err := st.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}
