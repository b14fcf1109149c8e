// Package menu implements the interactive numbered menu on top of a store.Store.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bookshelf/internal/model"
	"bookshelf/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Menu commands, typed by the user as their number.
const (
	cmdExit   = "0"
	cmdAdd    = "1"
	cmdRemove = "2"
	cmdUpdate = "3"
	cmdList   = "4"
	cmdSearch = "5"
)

const mainPrompt = "Enter a command number:\n" +
	cmdAdd + " - add a book\n" +
	cmdRemove + " - remove a book\n" +
	cmdUpdate + " - update book status\n" +
	cmdList + " - list all books\n" +
	cmdSearch + " - search books\n" +
	cmdExit + " - exit\n: "

var errInputClosed = errors.New("input closed")

// Menu reads commands from in and writes prompts and results to out.
// It keeps no state of its own; every action goes through the store.
type Menu struct {
	store  store.Store
	in     *bufio.Scanner
	out    io.Writer
	logger *zap.Logger
}

func New(st store.Store, in io.Reader, out io.Writer, logger *zap.Logger) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Menu{
		store:  st,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger.With(zap.String("session_id", uuid.NewString())),
	}
}

// Run loops until the exit command or the end of input.
// Invalid input is reprompted; store errors end the session and are returned.
func (m *Menu) Run(ctx context.Context) error {
	m.logger.Info("Menu session started")
	defer m.logger.Info("Menu session finished")

	for {
		command, err := m.ask(mainPrompt)
		if err != nil {
			return ignoreClosed(err)
		}

		switch command {
		case cmdAdd:
			err = m.add(ctx)
		case cmdRemove:
			err = m.remove(ctx)
		case cmdUpdate:
			err = m.update(ctx)
		case cmdList:
			err = m.list(ctx)
		case cmdSearch:
			err = m.search(ctx)
		case cmdExit:
			return nil
		default:
			m.say("Unknown command. Try again.")
		}
		if err != nil {
			return ignoreClosed(err)
		}
	}
}

func (m *Menu) add(ctx context.Context) error {
	title, err := m.ask("Enter the title: ")
	if err != nil {
		return err
	}
	author, err := m.ask("Enter the author: ")
	if err != nil {
		return err
	}
	year, err := m.askNumber("Enter the publication year: ", false)
	if err != nil {
		return err
	}

	book := model.NewBook(title, author, year)
	if err := m.store.Add(ctx, &book); err != nil {
		return err
	}
	m.logger.Info("Book added", zap.Int("id", book.ID()))
	m.say("Book added: " + book.String())
	return nil
}

func (m *Menu) remove(ctx context.Context) error {
	id, err := m.askNumber("Enter the id of the book to remove: ", false)
	if err != nil {
		return err
	}
	if err := m.store.Remove(ctx, id); err != nil {
		return err
	}
	m.logger.Info("Book removed", zap.Int("id", id))
	m.say("Book removed.")
	return nil
}

func (m *Menu) update(ctx context.Context) error {
	id, err := m.askNumber("Enter the id of the book to update: ", false)
	if err != nil {
		return err
	}

	var prompt strings.Builder
	prompt.WriteString("Enter the new status:\n")
	for _, s := range model.Statuses() {
		fmt.Fprintf(&prompt, "%s - %s\n", s.Code(), strings.ToLower(s.String()))
	}
	prompt.WriteString(": ")

	for {
		code, err := m.ask(prompt.String())
		if err != nil {
			return err
		}
		status, err := model.ParseStatus(code)
		if err != nil {
			m.say("Unknown status. Try again.")
			continue
		}
		if err := m.store.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		m.logger.Info("Status updated", zap.Int("id", id), zap.Stringer("status", status))
		m.say("Status updated.")
		return nil
	}
}

func (m *Menu) list(ctx context.Context) error {
	books, err := m.store.List(ctx)
	if err != nil {
		return err
	}
	m.printBooks(books, "The catalog is empty.")
	return nil
}

func (m *Menu) search(ctx context.Context) error {
	title, err := m.ask("Title contains (blank for any): ")
	if err != nil {
		return err
	}
	author, err := m.ask("Author contains (blank for any): ")
	if err != nil {
		return err
	}
	year, err := m.askNumber("Publication year (blank for any): ", true)
	if err != nil {
		return err
	}

	books, err := m.store.Search(ctx, store.Query{Title: title, Author: author, Year: year})
	if err != nil {
		return err
	}
	m.printBooks(books, "No books found.")
	return nil
}

func (m *Menu) printBooks(books []model.Book, empty string) {
	if len(books) == 0 {
		m.say(empty)
		return
	}
	for _, b := range books {
		m.say(b.String())
	}
}

// ask prints prompt and returns the next input line without surrounding spaces.
func (m *Menu) ask(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// askNumber reprompts until the user enters digits only. With allowBlank an
// empty line is accepted and returned as 0.
func (m *Menu) askNumber(prompt string, allowBlank bool) (int, error) {
	for {
		text, err := m.ask(prompt)
		if err != nil {
			return 0, err
		}
		if allowBlank && text == "" {
			return 0, nil
		}
		if n, ok := parseDigits(text); ok {
			return n, nil
		}
		m.say("Invalid number. Try again.")
	}
}

func (m *Menu) say(line string) {
	fmt.Fprintln(m.out, line)
}

// parseDigits accepts a non-empty run of ASCII digits that fits in an int.
func parseDigits(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}

func ignoreClosed(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}
