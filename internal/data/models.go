// internal/data/models.go
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jmoiron/sqlx"
)

const (
	tableBooks   = "books"
	colID        = "id"
	colTitle     = "title"
	colAuthor    = "author"
	colYear      = "year"
	colGenre     = "genre"
	dialectPG    = "postgres"
	dialectLite  = "sqlite3"
	driverPQ     = "postgres"
	driverPGX    = "pgx"
	driverSQLite = "sqlite"
)

var (
	// ErrRecordNotFound is returned when a query finds no matching row.
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnsupportedDriver is returned for database/sql drivers with no known SQL dialect.
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrBuildingQuery wraps failures of the SQL builder.
	ErrBuildingQuery = errors.New("building query failed")
)

// Drivers lists the database/sql driver names the store knows how to talk to.
var Drivers = []string{driverPQ, driverPGX, driverSQLite}

// Models is a top-level container that groups all database model types together.
type Models struct {
	Books BookModel
}

// NewModels constructs a Models value wired up to the given connection pool.
// The SQL dialect is derived from the pool's driver name.
func NewModels(db *sqlx.DB) (Models, error) {
	dialect, err := dialectFor(db.DriverName())
	if err != nil {
		return Models{}, err
	}

	return Models{
		Books: BookModel{DB: db, dialect: dialect},
	}, nil
}

func dialectFor(driverName string) (string, error) {
	switch driverName {
	case driverPQ, driverPGX:
		return dialectPG, nil
	case driverSQLite:
		return dialectLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driverName)
	}
}

// BookModel wraps a *sqlx.DB connection and provides methods for
// creating, reading, updating, and deleting book records.
type BookModel struct {
	DB      *sqlx.DB
	dialect string
}

func (m BookModel) builder() goqu.DialectWrapper {
	return goqu.Dialect(m.dialect)
}

// GetAll returns every book. No ordering is guaranteed.
func (m BookModel) GetAll(ctx context.Context) ([]Book, error) {
	query, args, err := m.builder().
		From(tableBooks).
		Select(colID, colTitle, colAuthor, colYear, colGenre).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, errors.Join(ErrBuildingQuery, err)
	}

	books := []Book{}
	if err := m.DB.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}

	return books, nil
}

// Get retrieves a single book by its primary key.
// Returns ErrRecordNotFound if no book with the given id exists.
func (m BookModel) Get(ctx context.Context, id int64) (Book, error) {
	query, args, err := m.builder().
		From(tableBooks).
		Select(colID, colTitle, colAuthor, colYear, colGenre).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return Book{}, errors.Join(ErrBuildingQuery, err)
	}

	var book Book
	err = m.DB.GetContext(ctx, &book, query, args...)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return Book{}, ErrRecordNotFound
		default:
			return Book{}, err
		}
	}

	return book, nil
}

// Insert adds a new book and returns it with the store-assigned id.
func (m BookModel) Insert(ctx context.Context, book Book) (Book, error) {
	ds := m.builder().
		Insert(tableBooks).
		Rows(m.record(book)).
		Prepared(true)

	// The sqlite3 dialect in goqu cannot emit RETURNING.
	if m.dialect == dialectLite {
		query, args, err := ds.ToSQL()
		if err != nil {
			return Book{}, errors.Join(ErrBuildingQuery, err)
		}

		result, err := m.DB.ExecContext(ctx, query, args...)
		if err != nil {
			return Book{}, err
		}

		book.ID, err = result.LastInsertId()
		if err != nil {
			return Book{}, err
		}

		return book, nil
	}

	query, args, err := ds.Returning(colID).ToSQL()
	if err != nil {
		return Book{}, errors.Join(ErrBuildingQuery, err)
	}

	if err := m.DB.QueryRowxContext(ctx, query, args...).Scan(&book.ID); err != nil {
		return Book{}, err
	}

	return book, nil
}

// Update replaces every mutable field of the book identified by book.ID.
// Returns ErrRecordNotFound if no row matched.
func (m BookModel) Update(ctx context.Context, book Book) error {
	query, args, err := m.builder().
		Update(tableBooks).
		Set(m.record(book)).
		Where(goqu.C(colID).Eq(book.ID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return errors.Join(ErrBuildingQuery, err)
	}

	result, err := m.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

// Delete removes the book with the given id from the database.
// Returns ErrRecordNotFound if no matching record exists.
func (m BookModel) Delete(ctx context.Context, id int64) error {
	query, args, err := m.builder().
		Delete(tableBooks).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return errors.Join(ErrBuildingQuery, err)
	}

	result, err := m.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

// Ping reports whether the database answers.
func (m BookModel) Ping(ctx context.Context) error {
	return m.DB.PingContext(ctx)
}

func (m BookModel) record(book Book) goqu.Record {
	var genre any
	if book.Genre != nil {
		genre = *book.Genre
	}

	return goqu.Record{
		colTitle:  book.Title,
		colAuthor: book.Author,
		colYear:   book.Year,
		colGenre:  genre,
	}
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
