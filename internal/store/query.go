package store

import (
	"strings"

	"bookshelf/internal/model"
)

// Query holds the optional search filters. An empty string or a zero year
// places no constraint on that field; the remaining filters are ANDed.
type Query struct {
	Title  string
	Author string
	Year   int
}

// IsZero reports whether q matches every book.
func (q Query) IsZero() bool {
	return strings.TrimSpace(q.Title) == "" && strings.TrimSpace(q.Author) == "" && q.Year == 0
}

// Match reports whether book satisfies q. Title and author match on a
// case-insensitive substring, year matches exactly.
func (q Query) Match(book model.Book) bool {
	return containsFold(book.Title(), q.Title) &&
		containsFold(book.Author(), q.Author) &&
		(q.Year == 0 || book.Year() == q.Year)
}

func containsFold(field, filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(field), filter)
}
