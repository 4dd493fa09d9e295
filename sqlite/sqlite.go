// Package sqlite provides the SQLite-backed full-text index and crawl history.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// maxReaders caps the read connection pool of file databases.
const maxReaders = 4

// DB represents a SQLite database with one writer connection and, for file
// databases, a separate pool of read-only connections.
type DB struct {
	db     *sql.DB
	reader *sql.DB
	path   string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connections and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait up to 5 seconds on lock contention instead of failing immediately.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL lets readers see the last committed state while a write is in
	// progress. Not supported for in-memory databases.
	if !db.inMemory() {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// An in-memory database exists only on its single connection.
	if db.inMemory() {
		db.reader = conn
		return nil
	}

	dsn, err := readerDSN(db.path)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to resolve database path: %w", err)
	}
	reader, err := sql.Open("sqlite3", dsn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open reader pool: %w", err)
	}
	reader.SetMaxOpenConns(maxReaders)
	if err := reader.Ping(); err != nil {
		reader.Close()
		conn.Close()
		return fmt.Errorf("failed to connect reader pool: %w", err)
	}
	db.reader = reader

	return nil
}

// Close closes the database connections.
func (db *DB) Close() error {
	var err error
	if db.reader != nil && db.reader != db.db {
		err = db.reader.Close()
	}
	if db.db != nil {
		if e := db.db.Close(); e != nil {
			err = e
		}
	}
	return err
}

// Path returns the database path.
func (db *DB) Path() string {
	return db.path
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a write transaction on the writer connection.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// BeginReadTx starts a read-only transaction. Every query in it sees the
// same committed snapshot.
func (db *DB) BeginReadTx(ctx context.Context) (*sql.Tx, error) {
	return db.reader.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
}

func (db *DB) inMemory() bool {
	return db.path == ":memory:"
}

// readerDSN builds a URI for pooled read connections. Pragmas go in the
// DSN so that every pooled connection gets them.
func readerDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: q.Encode()}
	return u.String(), nil
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			title_length INTEGER NOT NULL DEFAULT 0,
			content_length INTEGER NOT NULL DEFAULT 0,
			indexed_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS postings (
			term TEXT NOT NULL,
			field TEXT NOT NULL,
			doc_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			frequency INTEGER NOT NULL,
			PRIMARY KEY (term, field, doc_id)
		) WITHOUT ROWID;

		CREATE INDEX IF NOT EXISTS idx_postings_doc_id ON postings(doc_id);

		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed_url TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			indexed INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`

	_, err := db.db.Exec(schema)
	return err
}
