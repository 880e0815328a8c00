// Package data provides the book record, its field rules, pagination and the
// database-backed record store.
package data

import (
	"fmt"

	"github.com/aoideee/books-api/internal/validator"
)

// Field limits for a book record.
const (
	MaxTitleLength  = 200
	MaxAuthorLength = 100
	MaxGenreLength  = 50
	MinYear         = 1500
)

// Book represents a single book record stored in the database.
// It maps directly to a row in the "books" table.
type Book struct {
	ID     int64   `json:"id"     db:"id"`     // Assigned by the store, immutable after creation
	Title  string  `json:"title"  db:"title"`  // Title of the book
	Author string  `json:"author" db:"author"` // Author name
	Year   int     `json:"year"   db:"year"`   // Publication year
	Genre  *string `json:"genre"  db:"genre"`  // Optional genre; null on the wire when absent
}

// CreateBookInput holds the fields a client supplies when creating a book.
type CreateBookInput struct {
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Year   int     `json:"year"`
	Genre  *string `json:"genre"`
}

// UpdateBookInput holds the full replacement for an existing book. Every
// field is overwritten; ID must match the one in the URL.
type UpdateBookInput struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Year   int     `json:"year"`
	Genre  *string `json:"genre"`
}

// Book converts the input into a record without an identity.
func (in CreateBookInput) Book() Book {
	return Book{Title: in.Title, Author: in.Author, Year: in.Year, Genre: in.Genre}
}

// Book converts the input into the replacement record.
func (in UpdateBookInput) Book() Book {
	return Book{ID: in.ID, Title: in.Title, Author: in.Author, Year: in.Year, Genre: in.Genre}
}

// ValidateCreateBook checks the field rules for a new book. currentYear is the
// upper bound for the publication year.
func ValidateCreateBook(v *validator.Validator, in CreateBookInput, currentYear int) {
	validateFields(v, in.Title, in.Author, in.Year, in.Genre, currentYear)
}

// ValidateUpdateBook checks the field rules for a replacement, including a
// positive identity.
func ValidateUpdateBook(v *validator.Validator, in UpdateBookInput, currentYear int) {
	v.Check(in.ID > 0, "id", "El Id debe ser mayor a cero.")
	validateFields(v, in.Title, in.Author, in.Year, in.Genre, currentYear)
}

func validateFields(v *validator.Validator, title, author string, year int, genre *string, currentYear int) {
	v.Check(validator.NotBlank(title), "title", "El título del libro es obligatorio.")
	v.Check(validator.MaxChars(title, MaxTitleLength), "title", "El título no puede exceder 200 caracteres.")

	v.Check(validator.NotBlank(author), "author", "El autor del libro es obligatorio.")
	v.Check(validator.MaxChars(author, MaxAuthorLength), "author", "El autor no puede exceder 100 caracteres.")

	v.Check(validator.Between(year, MinYear, currentYear), "year",
		fmt.Sprintf("El año debe estar entre %d y %d.", MinYear, currentYear))

	if genre != nil && *genre != "" {
		v.Check(validator.MaxChars(*genre, MaxGenreLength), "genre", "El género no puede exceder 50 caracteres.")
	}
}
