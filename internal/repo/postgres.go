package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgKV is the Postgres implementation of KV. Each key is one row of the
// kv_store table created by migrations/00001_create_kv_store.sql. The value
// column is TEXT so documents come back byte for byte as written.
type pgKV struct {
	db db
}

// NewPostgresKV constructs a KV backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresKV(db db) KV {
	return &pgKV{db: db}
}

// Get returns the JSON document stored under key.
func (r *pgKV) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM kv_store WHERE key = @key`

	var value []byte
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repo.pgKV.Get %q: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.pgKV.Get %q: %w", key, err)
	}
	return value, nil
}

// Set upserts the document stored under key.
func (r *pgKV) Set(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO kv_store (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key) DO UPDATE
		SET value      = EXCLUDED.value,
		    updated_at = now()`

	args := pgx.NamedArgs{
		"key":   key,
		"value": string(value),
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.pgKV.Set %q: %w", key, err)
	}
	return nil
}

// Remove deletes the row for key if it exists.
func (r *pgKV) Remove(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_store WHERE key = @key`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key}); err != nil {
		return fmt.Errorf("repo.pgKV.Remove %q: %w", key, err)
	}
	return nil
}
