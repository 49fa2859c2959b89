package bundles

import (
	"context"
	"fmt"
)

// PromoteAndGC copies new_* rows at or below tipHeight-MaxForkDepth into
// stable_*, then deletes the new_* rows that copy made redundant. Invoked
// by the caller on the same every-StableFlushInterval cadence as core's own
// promotion in core.Store.SaveBlockAndTxs, with its own endHeight/cutoff
// computation rather than sharing core's transaction.
func (s *Store) PromoteAndGC(ctx context.Context, tipHeight int64, maxStableBlockTimestamp int64) error {
	endHeight := tipHeight - s.cfg.MaxForkDepth
	if endHeight < 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("bundles: begin promote: %w", err)
	}
	defer tx.Rollback()

	promotions := []string{
		"insertOrIgnoreStableDataItems",
		"insertOrIgnoreStableDataItemTags",
	}
	for _, name := range promotions {
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt(name)).ExecContext(ctx, endHeight); err != nil {
			return fmt.Errorf("bundles: promote %s: %w", name, err)
		}
	}

	cutoff := maxStableBlockTimestamp - s.cfg.NewDataItemCleanupWait
	gc := []string{
		"deleteStaleNewDataItemTags",
		"deleteStaleNewDataItems",
	}
	for _, name := range gc {
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt(name)).ExecContext(ctx, endHeight, cutoff); err != nil {
			return fmt.Errorf("bundles: gc %s: %w", name, err)
		}
	}

	return tx.Commit()
}
