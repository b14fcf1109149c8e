package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Book represents one catalog item.
// Only the store assigns an id; a Book with id 0 has not been persisted yet.
type Book struct {
	id     int
	title  string
	author string
	year   int
	status BookStatus
}

// NewBook creates an available, not yet persisted Book.
// Title and author are trimmed of surrounding whitespace.
func NewBook(title, author string, year int) Book {
	return Book{
		title:  strings.TrimSpace(title),
		author: strings.TrimSpace(author),
		year:   year,
		status: StatusAvailable,
	}
}

// NewBookWithStatus is NewBook with the status given by its short code.
func NewBookWithStatus(title, author string, year int, code string) (Book, error) {
	status, err := ParseStatus(code)
	if err != nil {
		return Book{}, err
	}
	return NewBook(title, author, year).WithStatus(status), nil
}

func (b Book) ID() int { return b.id }
func (b Book) Title() string { return b.title }
func (b Book) Author() string { return b.author }
func (b Book) Year() int { return b.year }
func (b Book) Status() BookStatus { return b.status }

// WithID returns a copy of b carrying id.
func (b Book) WithID(id int) Book {
	b.id = id
	return b
}

// WithStatus returns a copy of b carrying status; every other field is kept.
func (b Book) WithStatus(status BookStatus) Book {
	b.status = status
	return b
}

// String renders the canonical one-line form "<id>: <title>, <author>, <year> | <STATUS>".
func (b Book) String() string {
	return fmt.Sprintf("%d: %s, %s, %d | %s", b.id, b.title, b.author, b.year, b.status)
}

// bookJSON is the persisted shape of a Book. Pointers detect missing keys.
type bookJSON struct {
	ID     *int        `json:"pk"`
	Title  *string     `json:"title"`
	Author *string     `json:"author"`
	Year   *int        `json:"year"`
	Status *BookStatus `json:"status"`
}

func (b Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(bookJSON{
		ID:     &b.id,
		Title:  &b.title,
		Author: &b.author,
		Year:   &b.year,
		Status: &b.status,
	})
}

func (b *Book) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var w bookJSON
	if err := dec.Decode(&w); err != nil {
		return err
	}

	switch {
	case w.ID == nil:
		return missingField("pk")
	case w.Title == nil:
		return missingField("title")
	case w.Author == nil:
		return missingField("author")
	case w.Year == nil:
		return missingField("year")
	case w.Status == nil:
		return missingField("status")
	case *w.ID < 0:
		return fmt.Errorf("book pk must not be negative, got %d", *w.ID)
	}

	*b = NewBook(*w.Title, *w.Author, *w.Year).WithStatus(*w.Status).WithID(*w.ID)
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("book record is missing field %q", name)
}
