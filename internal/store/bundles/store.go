// Package bundles implements the `bundles` store: data items (bundled
// sub-transactions), bundle lifecycle records, and their tags. It is the
// BundleIndex implementation and the items half of the query planner's
// four sources.
package bundles

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/sm4rtLabel/ar-io-node/internal/store"
	"github.com/sm4rtLabel/ar-io-node/internal/store/stmt"
)

// Config mirrors core.Config; bundles promotes/GCs on the same cadence as
// core ("run stable promotion on both core and bundles").
type Config struct {
	MaxForkDepth      int64
	StableFlushInterval  int64
	NewDataItemCleanupWait int64 // seconds
}

func DefaultConfig() Config {
	return Config{
		MaxForkDepth:      50,
		StableFlushInterval:  5,
		NewDataItemCleanupWait: 2 * 60 * 60,
	}
}

// Store is one connection onto the bundles database file, with core
// attached as a secondary schema so saveDataItem can resolve a root
// transaction's height via core.stable_transactions/new_transactions.
type Store struct {
	db  *sql.DB
	stmts *stmt.Cache
	cfg  Config

	// filterIds and bundleFormatIds are per-worker hot caches, populated on
	// first use and never invalidated — ids are stable for the process
	// lifetime.
	mu       sync.Mutex
	filterIds   map[string]int64
	bundleFormatIds map[string]int64
}

func Open(ctx context.Context, bundlesPath, corePath string, cfg Config) (*Store, error) {
	db, err := store.Open(ctx, bundlesPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema()); err != nil {
		db.Close()
		return nil, fmt.Errorf("bundles: apply schema: %w", err)
	}
	if corePath != "" {
		if err := store.Attach(ctx, db, corePath, "core"); err != nil {
			db.Close()
			return nil, err
		}
	}
	cache, err := stmt.New(db, statements())
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{
		db:       db,
		stmts:      cache,
		cfg:       cfg,
		filterIds:    make(map[string]int64),
		bundleFormatIds: make(map[string]int64),
	}, nil
}

// DB exposes the underlying connection for planner queries that span the
// bundles and core schemas in a single statement.
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
