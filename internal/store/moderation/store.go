package moderation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sm4rtLabel/ar-io-node/internal/store"
	"github.com/sm4rtLabel/ar-io-node/internal/store/stmt"
)

type Store struct {
	db    *sql.DB
	stmts *stmt.Cache
}

func Open(ctx context.Context, moderationPath string) (*Store, error) {
	db, err := store.Open(ctx, moderationPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("moderation: apply schema: %w", err)
	}
	cache, err := stmt.New(db, statements())
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, stmts: cache}, nil
}

func (s *Store) Close() error {
	s.stmts.Close()
	return s.db.Close()
}

// Vacuum reclaims space freed by deleted rows, rewriting the database file.
func (s *Store) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}
