// Package core implements the `core` store: chain blocks, the
// block<->transaction join, bare transactions, and their tags. It is the
// ChainIndex / ChainOffsetIndex implementation and the half of the query
// planner's four sources that cover bare transactions.
package core

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sm4rtLabel/ar-io-node/internal/store"
	"github.com/sm4rtLabel/ar-io-node/internal/store/stmt"
)

// MaxForkDepth and StableFlushInterval are overridable defaults; Store
// carries its own copy so tests can use a short fork depth without a
// global.
type Config struct {
	MaxForkDepth    int64
	StableFlushInterval int64
	NewTxCleanupWait   int64 // seconds
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxForkDepth:    50,
		StableFlushInterval: 5,
		NewTxCleanupWait:   2 * 60 * 60,
	}
}

// Store is one connection onto the core database file, with the bundles
// store attached as a secondary schema so ingestion can propagate block
// heights onto data item rows and the query planner can join
// bundles.new_data_items / bundles.stable_data_items in place.
type Store struct {
	db   *sql.DB
	stmts *stmt.Cache
	cfg  Config
}

// Open opens the core store at corePath, attaches bundlesPath as schema
// "bundles", and applies the core schema.
func Open(ctx context.Context, corePath, bundlesPath string, cfg Config) (*Store, error) {
	db, err := store.Open(ctx, corePath)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema()); err != nil {
		db.Close()
		return nil, fmt.Errorf("core: apply schema: %w", err)
	}
	if bundlesPath != "" {
		if err := store.Attach(ctx, db, bundlesPath, "bundles"); err != nil {
			db.Close()
			return nil, err
		}
	}
	cache, err := stmt.New(db, statements())
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, stmts: cache, cfg: cfg}, nil
}

// DB exposes the underlying connection for read-only planner queries
// (internal/query builds SQL directly against it since the planner spans
// both the core and bundles schemas in a single statement).
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error {
	s.stmts.Close()
	return s.db.Close()
}

// Vacuum reclaims space freed by deleted rows, rewriting the database file.
func (s *Store) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}
