package core

import (
	"context"
	"database/sql"
	"fmt"
)

// promoteAndGC copies new_* rows at or below height-MaxForkDepth into
// stable_*, then deletes the new_* rows that copy made redundant. Invoked
// by SaveBlockAndTxs every StableFlushInterval blocks; the bundles store's
// equivalent promotion is triggered separately by the caller.
func (s *Store) promoteAndGC(ctx context.Context, tipHeight int64) error {
	endHeight := tipHeight - s.cfg.MaxForkDepth
	if endHeight < 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("core: begin promote: %w", err)
	}
	defer tx.Rollback()

	promotions := []string{
		"insertOrIgnoreStableBlocks",
		"insertOrIgnoreStableBlockTransactions",
		"insertOrIgnoreStableTransactions",
		"insertOrIgnoreStableTransactionTags",
	}
	for _, name := range promotions {
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt(name)).ExecContext(ctx, endHeight); err != nil {
			return fmt.Errorf("core: promote %s: %w", name, err)
		}
	}

	var maxStableTimestamp sql.NullInt64
	if err := tx.StmtContext(ctx, s.stmts.Stmt("selectMaxStableBlockTimestamp")).QueryRowContext(ctx).Scan(&maxStableTimestamp); err != nil {
		return fmt.Errorf("core: select max stable timestamp: %w", err)
	}
	cutoff := maxStableTimestamp.Int64 - int64(s.cfg.NewTxCleanupWait)

	gc := []string{
		"deleteStaleNewTransactionTags",
		"deleteStaleNewTransactions",
	}
	for _, name := range gc {
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt(name)).ExecContext(ctx, endHeight, cutoff); err != nil {
			return fmt.Errorf("core: gc %s: %w", name, err)
		}
	}

	// deleteStaleNewTransactions above may have just removed the
	// new_transactions row a new_block_transactions row pointed at; sweep
	// those now-dangling rows too.
	if _, err := tx.StmtContext(ctx, s.stmts.Stmt("deleteStaleNewBlockTransactions")).ExecContext(ctx); err != nil {
		return fmt.Errorf("core: gc deleteStaleNewBlockTransactions: %w", err)
	}

	return tx.Commit()
}

// PromoteAndGC exposes promoteAndGC so a promotion pass can be forced
// outside the normal every-StableFlushInterval cadence. Nothing in this
// module calls it; SaveBlockAndTxs calls promoteAndGC directly.
func (s *Store) PromoteAndGC(ctx context.Context, tipHeight int64) error {
	return s.promoteAndGC(ctx, tipHeight)
}
