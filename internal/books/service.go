// Package books holds the business rules applied between the record store
// and the HTTP layer: default ordering, duplicate prevention and existence
// checks. Failures are returned as *Error values classified by Kind.
package books

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/text/cases"

	"github.com/aoideee/books-api/internal/data"
)

// Store is the persistence collaborator for book records.
type Store interface {
	GetAll(ctx context.Context) ([]data.Book, error)
	Get(ctx context.Context, id int64) (data.Book, error)
	Insert(ctx context.Context, book data.Book) (data.Book, error)
	Update(ctx context.Context, book data.Book) error
	Delete(ctx context.Context, id int64) error
}

// Service applies the book business rules on top of a Store.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService returns a Service backed by store.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// ListAll returns every book ordered by id, newest first.
func (s *Service) ListAll(ctx context.Context) ([]data.Book, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(all, func(a, b data.Book) int {
		return cmp.Compare(b.ID, a.ID)
	})

	return all, nil
}

// Get returns the book with the given id.
func (s *Service) Get(ctx context.Context, id int64) (data.Book, error) {
	if id <= 0 {
		return data.Book{}, Invalidf("El Id debe ser mayor a cero.")
	}

	book, err := s.store.Get(ctx, id)
	if err != nil {
		return data.Book{}, translate(err, id)
	}

	return book, nil
}

// Create stores a new book unless another one already has the same title and
// author, compared case-insensitively.
//
// The duplicate check and the insert are not atomic: two concurrent creates
// of the same work can both succeed.
func (s *Service) Create(ctx context.Context, book data.Book) (data.Book, error) {
	existing, err := s.store.GetAll(ctx)
	if err != nil {
		return data.Book{}, err
	}

	if slices.ContainsFunc(existing, func(b data.Book) bool { return sameWork(b, book) }) {
		s.logger.Warn("duplicate book rejected", "title", book.Title, "author", book.Author)
		return data.Book{}, Conflictf("Ya existe un libro con el mismo título y autor.")
	}

	created, err := s.store.Insert(ctx, book)
	if err != nil {
		return data.Book{}, err
	}

	s.logger.Info("book created", "id", created.ID)
	return created, nil
}

// Update replaces every field of an existing book. The duplicate check runs
// against the current contents of the store, ignoring the book itself.
func (s *Service) Update(ctx context.Context, book data.Book) error {
	if _, err := s.store.Get(ctx, book.ID); err != nil {
		return translate(err, book.ID)
	}

	all, err := s.store.GetAll(ctx)
	if err != nil {
		return err
	}

	if slices.ContainsFunc(all, func(b data.Book) bool { return b.ID != book.ID && sameWork(b, book) }) {
		s.logger.Warn("duplicate book rejected", "id", book.ID, "title", book.Title, "author", book.Author)
		return Conflictf("Ya existe otro libro con el mismo título y autor.")
	}

	if err := s.store.Update(ctx, book); err != nil {
		return translate(err, book.ID)
	}

	s.logger.Info("book updated", "id", book.ID)
	return nil
}

// Delete permanently removes the book with the given id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return Invalidf("El Id debe ser mayor a cero.")
	}

	if _, err := s.store.Get(ctx, id); err != nil {
		return translate(err, id)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return translate(err, id)
	}

	s.logger.Info("book deleted", "id", id)
	return nil
}

// translate maps the store's not-found sentinel to a classified failure and
// passes every other error through unclassified.
func translate(err error, id int64) error {
	if errors.Is(err, data.ErrRecordNotFound) {
		return &Error{
			Kind:    KindNotFound,
			Message: fmt.Sprintf("No se encontró un libro con Id %d.", id),
			Err:     err,
		}
	}
	return err
}

func sameWork(a, b data.Book) bool {
	return foldEqual(a.Title, b.Title) && foldEqual(a.Author, b.Author)
}

func foldEqual(a, b string) bool {
	// A Caser is stateful, so each comparison gets its own.
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
