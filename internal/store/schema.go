package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

const booksTable = "books"

const sqliteTableExistsSQL = `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`

const sqliteCreateBooksSQL = `
	CREATE TABLE books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		isbn TEXT UNIQUE NOT NULL,
		location TEXT,
		author TEXT,
		summary TEXT,
		pages INTEGER,
		language TEXT,
		published_date TEXT,
		cover_url TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

const pgTableExistsSQL = `
	SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1
	)`

const pgCreateBooksSQL = `
	CREATE TABLE books (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		isbn TEXT UNIQUE NOT NULL,
		location TEXT,
		author TEXT,
		summary TEXT,
		pages INTEGER,
		language TEXT,
		published_date TEXT,
		cover_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// schemaOps is the dialect-specific half of the schema manager.
type schemaOps struct {
	exists func(ctx context.Context) (bool, error)
	create func(ctx context.Context) error
}

// ensureSchema creates the books table when it is missing. It is a plain
// check-then-create: there is no versioning and an existing table is left
// exactly as it is. Reports whether the table was created.
func ensureSchema(ctx context.Context, ops schemaOps, log logrus.FieldLogger) (bool, error) {
	exists, err := ops.exists(ctx)
	if err != nil {
		return false, fmt.Errorf("ensure schema: check %s table: %w", booksTable, err)
	}
	if exists {
		log.WithField("table", booksTable).Info("database table already exists")
		return false, nil
	}

	if err := ops.create(ctx); err != nil {
		return false, fmt.Errorf("ensure schema: create %s table: %w", booksTable, err)
	}
	log.WithField("table", booksTable).Info("database table created")
	return true, nil
}
