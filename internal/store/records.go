package store

import "bookshelf/internal/model"

// records holds the pure helpers shared by every backend: each operation is
// "take the full set, compute the next full set".
type records []model.Book

// nextID is the largest id present plus one, or 1 for an empty set.
func (r records) nextID() int {
	highest := 0
	for _, b := range r {
		highest = max(highest, b.ID())
	}
	return highest + 1
}

func (r records) without(id int) (records, bool) {
	out := make(records, 0, len(r))
	for _, b := range r {
		if b.ID() != id {
			out = append(out, b)
		}
	}
	return out, len(out) != len(r)
}

func (r records) withStatus(id int, status model.BookStatus) (records, bool) {
	out := make(records, len(r))
	found := false
	for i, b := range r {
		if b.ID() == id {
			b = b.WithStatus(status)
			found = true
		}
		out[i] = b
	}
	return out, found
}

func (r records) filter(q Query) []model.Book {
	out := []model.Book{}
	for _, b := range r {
		if q.Match(b) {
			out = append(out, b)
		}
	}
	return out
}
