// Package store persists catalog records in SQLite (the default, a single
// file) or PostgreSQL, and owns the books table schema.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookshelf/internal/book"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and tunes the backend.
type Config struct {
	Driver  string
	DSN     string
	Timeout time.Duration
}

type backend interface {
	book.Repository
	EnsureSchema(ctx context.Context) (bool, error)
	TableExists(ctx context.Context) (bool, error)
	Ping(ctx context.Context) error
	Close()
}

// Store is an opened catalog database.
type Store struct {
	backend
}

// Books returns the repository view of the store.
func (s *Store) Books() book.Repository {
	return s.backend
}

// Open connects to the configured backend and verifies it answers a ping.
// The schema is not touched; call EnsureSchema for that.
func Open(ctx context.Context, cfg Config, log logrus.FieldLogger) (*Store, error) {
	log = log.WithField("driver", cfg.Driver)

	var b backend
	switch cfg.Driver {
	case DriverSQLite, "":
		db, err := OpenSQLite(cfg.DSN)
		if err != nil {
			return nil, err
		}
		b = NewBookSQLite(db, cfg.Timeout, log)
	case DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("cannot create db pool: %w", err)
		}
		b = NewBookPG(pool, cfg.Timeout, log)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := b.Ping(pingCtx); err != nil {
		b.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", RedactDSN(cfg.DSN), err)
	}
	log.Info("database connection OK")
	return &Store{backend: b}, nil
}

// RedactDSN hides the credentials of a URL-style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
