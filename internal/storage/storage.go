// Package storage implements the repository ports on SQLite. It plays the
// role of the remote document store: it assigns ids, stamps timestamps and
// normalizes column values into the core's explicit timestamp type at the
// boundary.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"compras/internal/core"

	_ "modernc.org/sqlite"
)

// DB wraps the shared connection handle behind both repositories.
type DB struct {
	db *sql.DB
}

func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Items returns the item repository bound to this handle.
func (d *DB) Items() *ItemRepo {
	return &ItemRepo{db: d.db, now: time.Now}
}

// Profiles returns the profile repository bound to this handle.
func (d *DB) Profiles() *ProfileRepo {
	return &ProfileRepo{db: d.db, now: time.Now}
}

// Column helpers. Timestamps are persisted as unix milliseconds so the
// repositories, not the engine, own the storage representation.

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func toNullMillis(t core.Timestamp) sql.NullInt64 {
	if !t.IsSet() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromNullMillis(v sql.NullInt64) core.Timestamp {
	if !v.Valid {
		return core.Timestamp{}
	}
	return core.NewTimestamp(fromMillis(v.Int64))
}
