package moderation

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// IsIdBlocked reports whether id is on the blocklist. Empty or nil ids are
// never blocked (scenario S6).
func (s *Store) IsIdBlocked(ctx context.Context, id []byte) (bool, error) {
	if len(id) == 0 {
		return false, nil
	}
	var one int
	err := s.stmts.Stmt("selectIsIdBlocked").QueryRowContext(ctx, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("moderation: isIdBlocked: %w", err)
	}
	return true, nil
}

// IsHashBlocked reports whether hash is on the blocklist. Empty or nil
// hashes are never blocked.
func (s *Store) IsHashBlocked(ctx context.Context, hash []byte) (bool, error) {
	if len(hash) == 0 {
		return false, nil
	}
	var one int
	err := s.stmts.Stmt("selectIsHashBlocked").QueryRowContext(ctx, hash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("moderation: isHashBlocked: %w", err)
	}
	return true, nil
}

// BlockRequest is BlockData's input: at least one of ID/Hash must be set.
type BlockRequest struct {
	ID   []byte
	Hash  []byte
	Source string
	Notes string
}

// BlockData records a blocked id or hash, resolving (and caching, via the
// source_id dimension table) the audit source when provided.
func (s *Store) BlockData(ctx context.Context, req BlockRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("moderation: begin blockData: %w", err)
	}
	defer tx.Rollback()

	var sourceID any
	if req.Source != "" {
		id, err := s.resolveSourceID(ctx, tx, req.Source)
		if err != nil {
			return err
		}
		sourceID = id
	}

	blockedAt := time.Now().Unix()
	if len(req.ID) > 0 {
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreBlockedId")).ExecContext(ctx,
			req.ID, sourceID, nullableString(req.Notes), blockedAt); err != nil {
			return fmt.Errorf("moderation: insert blocked_id: %w", err)
		}
	}
	if len(req.Hash) > 0 {
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreBlockedHash")).ExecContext(ctx,
			req.Hash, sourceID, nullableString(req.Notes), blockedAt); err != nil {
			return fmt.Errorf("moderation: insert blocked_hash: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) resolveSourceID(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreBlockSource")).ExecContext(ctx, name); err != nil {
		return 0, fmt.Errorf("moderation: insert block_source: %w", err)
	}
	var id int64
	if err := tx.StmtContext(ctx, s.stmts.Stmt("selectBlockSourceId")).QueryRowContext(ctx, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("moderation: select block_source id: %w", err)
	}
	return id, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
