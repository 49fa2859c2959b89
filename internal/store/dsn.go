// Package store holds the conventions shared by the four persistent stores
// (core, bundles, data, moderation): how a store file is opened, how its
// named statements are cached, and how stores attach each other's schema
// for cross-store joins.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// PageSize is the SQLite page size every store file is created with.
const PageSize = 4096

// BusyTimeoutMS is the connection busy timeout, in milliseconds, applied to
// every store connection.
const BusyTimeoutMS = 30_000

// Open opens a SQLite-backed store file in WAL journal mode with the
// configured page size and busy timeout, using the pure-Go
// ncruces/go-sqlite3 driver (no cgo).
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, BusyTimeoutMS)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// The four stores are each accessed by several single-connection
	// worker goroutines, not a shared pool: every worker manages its own
	// *sql.DB with exactly one open connection, so the database/sql pool
	// never hands a worker someone else's in-flight statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA page_size=%d", PageSize),
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("open %s: %s: %w", path, p, err)
		}
	}
	return db, nil
}

// Attach attaches another store's database file to this connection under
// the given schema name, so planner SQL can reference <schemaName>.<table>.
func Attach(ctx context.Context, db *sql.DB, path, schemaName string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf("ATTACH DATABASE '%s' AS %s", path, schemaName))
	if err != nil {
		return fmt.Errorf("attach %s as %s: %w", path, schemaName, err)
	}
	return nil
}
