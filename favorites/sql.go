package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv_store (
    name TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

// SQLKV implements KV on a single table, for sqlite (modernc.org/sqlite) or postgres (lib/pq)
type SQLKV struct {
	db *sqlx.DB
}

// OpenSQLKV opens (or creates) the database and applies the schema.
// driver is "sqlite" or "postgres".
func OpenSQLKV(ctx context.Context, driver, dsn string) (*SQLKV, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// a single writer avoids SQLITE_BUSY under concurrent handlers
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}

	kv, err := NewSQLKV(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return kv, nil
}

// NewSQLKV wraps an open database and applies the schema
func NewSQLKV(ctx context.Context, db *sqlx.DB) (*SQLKV, error) {
	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		return nil, fmt.Errorf("failed to apply kv schema: %w", err)
	}
	return &SQLKV{db: db}, nil
}

// Get returns the value stored under key
func (s *SQLKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind(`SELECT value FROM kv_store WHERE name = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set upserts the value stored under key
func (s *SQLKV) Set(ctx context.Context, key string, value []byte) error {
	query := s.db.Rebind(`INSERT INTO kv_store(name, value, updated_at) VALUES(?, ?, ?)
ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)

	if _, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database
func (s *SQLKV) Close() error {
	return s.db.Close()
}
