// Package postgres stores the document as a single JSONB row in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"storefront/pkg/store"
)

const (
	schemaSQL = "CREATE TABLE IF NOT EXISTS documents (name TEXT PRIMARY KEY, body JSONB NOT NULL, updated_at TIMESTAMPTZ NOT NULL DEFAULT now())"
	loadSQL   = "SELECT body FROM documents WHERE name=$1"
	saveSQL   = "INSERT INTO documents (name,body,updated_at) VALUES ($1,$2,now()) ON CONFLICT (name) DO UPDATE SET body=EXCLUDED.body, updated_at=EXCLUDED.updated_at"
)

// Backend persists the document in PostgreSQL.
type Backend struct {
	db   *sql.DB
	name string
}

// New creates a PostgreSQL backend storing the document under name.
func New(db *sql.DB, name string) *Backend {
	return &Backend{db: db, name: name}
}

// Open connects using a lib/pq DSN and makes sure the documents table exists.
func Open(ctx context.Context, dsn, name string) (*Backend, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	b := New(db, name)
	if err := b.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// EnsureSchema creates the documents table if needed.
func (b *Backend) EnsureSchema(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Load retrieves the stored document.
func (b *Backend) Load(ctx context.Context) ([]byte, error) {
	var body []byte
	err := b.db.QueryRowContext(ctx, loadSQL, b.name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrNoDocument, b.name)
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Save upserts the whole document.
func (b *Backend) Save(ctx context.Context, data []byte) error {
	_, err := b.db.ExecContext(ctx, saveSQL, b.name, string(data))
	return err
}

// Close releases the connection pool.
func (b *Backend) Close() error {
	return b.db.Close()
}
