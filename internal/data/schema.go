package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schemas = map[string]string{
	dialectPG: `CREATE TABLE IF NOT EXISTS books (
		id     BIGSERIAL PRIMARY KEY,
		title  VARCHAR(200) NOT NULL,
		author VARCHAR(100) NOT NULL,
		year   INTEGER NOT NULL,
		genre  VARCHAR(50)
	);`,
	dialectLite: `CREATE TABLE IF NOT EXISTS books (
		id     INTEGER PRIMARY KEY AUTOINCREMENT,
		title  TEXT NOT NULL,
		author TEXT NOT NULL,
		year   INTEGER NOT NULL,
		genre  TEXT
	);`,
}

// Migrate creates the books table if it does not exist yet. (title, author)
// carries no unique index; duplicates are rejected by the business rules.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	dialect, err := dialectFor(db.DriverName())
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, schemas[dialect]); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}

	return nil
}
