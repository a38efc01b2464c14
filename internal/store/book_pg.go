package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookshelf/internal/book"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const pgUniqueViolation = "23505"

const pgSelectBookColumns = `
	SELECT id, name, isbn, COALESCE(location, ''), COALESCE(author, ''), COALESCE(summary, ''),
	       COALESCE(pages, 0), COALESCE(language, ''), COALESCE(published_date, ''),
	       COALESCE(cover_url, ''), created_at
	FROM books`

// BookPG is the PostgreSQL implementation of book.Repository.
type BookPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewBookPG(db *pgxpool.Pool, timeout time.Duration, log logrus.FieldLogger) *BookPG {
	return &BookPG{db: db, timeout: timeout, log: log}
}

func (r *BookPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *BookPG) EnsureSchema(ctx context.Context) (bool, error) {
	return ensureSchema(ctx, schemaOps{
		exists: r.TableExists,
		create: func(ctx context.Context) error {
			timeoutCtx, cancel := r.withTimeout(ctx)
			defer cancel()
			_, err := r.db.Exec(timeoutCtx, pgCreateBooksSQL)
			return err
		},
	}, r.log)
}

func (r *BookPG) TableExists(ctx context.Context) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var exists bool
	err := r.db.QueryRow(timeoutCtx, pgTableExistsSQL, booksTable).Scan(&exists)
	return exists, err
}

func (r *BookPG) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *BookPG) Close() {
	r.db.Close()
}

func (r *BookPG) List(ctx context.Context, q book.Query) ([]book.Book, error) {
	query := pgSelectBookColumns
	args := []any{}
	if q.Search != "" {
		query += ` WHERE name ILIKE $1 OR author ILIKE $1 OR isbn ILIKE $1`
		args = append(args, likePattern(q.Search))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []book.Book{}
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.ISBN, &b.Location, &b.Author, &b.Summary,
			&b.Pages, &b.Language, &b.PublishedDate, &b.CoverURL, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookPG) FindByISBN(ctx context.Context, isbn string) (book.Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var b book.Book
	err := r.db.QueryRow(timeoutCtx, pgSelectBookColumns+` WHERE isbn = $1`, isbn).Scan(
		&b.ID, &b.Title, &b.ISBN, &b.Location, &b.Author, &b.Summary,
		&b.Pages, &b.Language, &b.PublishedDate, &b.CoverURL, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return book.Book{}, book.ErrNotFound
		}
		return book.Book{}, err
	}
	return b, nil
}

func (r *BookPG) Insert(ctx context.Context, b *book.Book) (int64, error) {
	const sql = `
		INSERT INTO books (name, isbn, location, author, summary, pages, language, published_date, cover_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, clock_timestamp())
		RETURNING id, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql,
		b.Title, b.ISBN, b.Location, b.Author, b.Summary,
		b.Pages, b.Language, b.PublishedDate, b.CoverURL,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, fmt.Errorf("insert book %s: %w", b.ISBN, book.ErrDuplicateISBN)
		}
		return 0, err
	}
	return b.ID, nil
}

func (r *BookPG) DeleteByISBN(ctx context.Context, isbn string) error {
	return r.mutateExisting(ctx, isbn, `DELETE FROM books WHERE isbn = $1`, isbn)
}

func (r *BookPG) UpdateLocation(ctx context.Context, isbn, location string) error {
	return r.mutateExisting(ctx, isbn, `UPDATE books SET location = $1 WHERE isbn = $2`, location, isbn)
}

// mutateExisting runs the existence check and the write in one transaction.
// Any failure rolls back this transaction only.
func (r *BookPG) mutateExisting(ctx context.Context, isbn, sql string, args ...any) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	var exists bool
	if err := tx.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM books WHERE isbn = $1)`, isbn).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return book.ErrNotFound
	}

	if _, err := tx.Exec(timeoutCtx, sql, args...); err != nil {
		return err
	}
	return tx.Commit(timeoutCtx)
}

func (r *BookPG) Count(ctx context.Context) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var count int
	err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM books").Scan(&count)
	return count, err
}
