package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookshelf/internal/book"

	"github.com/sirupsen/logrus"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqliteSelectBookColumns = `
	SELECT id, name, isbn, COALESCE(location, ''), COALESCE(author, ''), COALESCE(summary, ''),
	       COALESCE(pages, 0), COALESCE(language, ''), COALESCE(published_date, ''),
	       COALESCE(cover_url, ''), created_at
	FROM books`

// BookSQLite is the file-backed implementation of book.Repository.
type BookSQLite struct {
	db      *sql.DB
	timeout time.Duration
	now     func() time.Time
	log     logrus.FieldLogger
}

func NewBookSQLite(db *sql.DB, timeout time.Duration, log logrus.FieldLogger) *BookSQLite {
	return &BookSQLite{db: db, timeout: timeout, now: time.Now, log: log}
}

// OpenSQLite opens the database file at path with a single connection;
// SQLite allows only one writer at a time anyway.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "_pragma=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (r *BookSQLite) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *BookSQLite) EnsureSchema(ctx context.Context) (bool, error) {
	return ensureSchema(ctx, schemaOps{
		exists: r.TableExists,
		create: func(ctx context.Context) error {
			timeoutCtx, cancel := r.withTimeout(ctx)
			defer cancel()
			_, err := r.db.ExecContext(timeoutCtx, sqliteCreateBooksSQL)
			return err
		},
	}, r.log)
}

func (r *BookSQLite) TableExists(ctx context.Context) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var name string
	err := r.db.QueryRowContext(timeoutCtx, sqliteTableExistsSQL, booksTable).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *BookSQLite) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *BookSQLite) Close() {
	if err := r.db.Close(); err != nil {
		r.log.WithError(err).Warn("close sqlite")
	}
}

func (r *BookSQLite) List(ctx context.Context, q book.Query) ([]book.Book, error) {
	query := sqliteSelectBookColumns
	args := []any{}
	if q.Search != "" {
		query += ` WHERE name LIKE ? ESCAPE '\' OR author LIKE ? ESCAPE '\' OR isbn LIKE ? ESCAPE '\'`
		p := likePattern(q.Search)
		args = append(args, p, p, p)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []book.Book{}
	for rows.Next() {
		b, err := scanSQLiteBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookSQLite) FindByISBN(ctx context.Context, isbn string) (book.Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanSQLiteBook(r.db.QueryRowContext(timeoutCtx, sqliteSelectBookColumns+` WHERE isbn = ?`, isbn))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return book.Book{}, book.ErrNotFound
		}
		return book.Book{}, err
	}
	return b, nil
}

func (r *BookSQLite) Insert(ctx context.Context, b *book.Book) (int64, error) {
	const query = `
		INSERT INTO books (name, isbn, location, author, summary, pages, language, published_date, cover_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	createdAt := r.now().UTC()

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(timeoutCtx, query,
		b.Title, b.ISBN, b.Location, b.Author, b.Summary,
		b.Pages, b.Language, b.PublishedDate, b.CoverURL, createdAt,
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return 0, fmt.Errorf("insert book %s: %w", b.ISBN, book.ErrDuplicateISBN)
		}
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	b.ID = id
	b.CreatedAt = createdAt
	return id, nil
}

func (r *BookSQLite) DeleteByISBN(ctx context.Context, isbn string) error {
	return r.mutateExisting(ctx, isbn, `DELETE FROM books WHERE isbn = ?`, isbn)
}

func (r *BookSQLite) UpdateLocation(ctx context.Context, isbn, location string) error {
	return r.mutateExisting(ctx, isbn, `UPDATE books SET location = ? WHERE isbn = ?`, location, isbn)
}

// mutateExisting runs the existence check and the write in one transaction.
// Any failure rolls back this transaction only.
func (r *BookSQLite) mutateExisting(ctx context.Context, isbn, query string, args ...any) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(timeoutCtx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(timeoutCtx, `SELECT id FROM books WHERE isbn = ?`, isbn).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return book.ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(timeoutCtx, query, args...); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *BookSQLite) Count(ctx context.Context) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var count int
	err := r.db.QueryRowContext(timeoutCtx, "SELECT COUNT(*) FROM books").Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteBook(row rowScanner) (book.Book, error) {
	var b book.Book
	var createdAt sql.NullTime
	err := row.Scan(
		&b.ID, &b.Title, &b.ISBN, &b.Location, &b.Author, &b.Summary,
		&b.Pages, &b.Language, &b.PublishedDate, &b.CoverURL, &createdAt,
	)
	b.CreatedAt = createdAt.Time
	return b, err
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// likePattern wraps s for a substring LIKE match, escaping wildcards with '\'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
