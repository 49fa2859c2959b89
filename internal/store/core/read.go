package core

import (
	"context"
	"database/sql"
	"fmt"
)

// GetMaxHeight returns the current tip height, or -1 if no block has been
// indexed yet.
func (s *Store) GetMaxHeight(ctx context.Context) (int64, error) {
	var h sql.NullInt64
	if err := s.stmts.Stmt("selectMaxNewHeight").QueryRowContext(ctx).Scan(&h); err != nil {
		return 0, fmt.Errorf("core: getMaxHeight: %w", err)
	}
	if !h.Valid {
		return -1, nil
	}
	return h.Int64, nil
}

// GetMaxStableBlockTimestamp returns the timestamp of the highest stable
// block, for orchestrating the bundles store's own promotion pass, which
// has no block-timestamp data of its own.
func (s *Store) GetMaxStableBlockTimestamp(ctx context.Context) (int64, error) {
	var ts sql.NullInt64
	if err := s.stmts.Stmt("selectMaxStableBlockTimestamp").QueryRowContext(ctx).Scan(&ts); err != nil {
		return 0, fmt.Errorf("core: getMaxStableBlockTimestamp: %w", err)
	}
	return ts.Int64, nil
}

// GetBlockHashByHeight returns the independent hash of the block at height,
// checking new_blocks first (the common case — recent heights) and falling
// back to stable_blocks.
func (s *Store) GetBlockHashByHeight(ctx context.Context, height int64) ([]byte, error) {
	var hash []byte
	err := s.stmts.Stmt("selectNewBlockHashByHeight").QueryRowContext(ctx, height).Scan(&hash)
	if err == nil {
		return hash, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("core: getBlockHashByHeight (new): %w", err)
	}
	err = s.stmts.Stmt("selectStableBlockHashByHeight").QueryRowContext(ctx, height).Scan(&hash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("core: getBlockHashByHeight (stable): %w", err)
	}
	return hash, nil
}

// GetMissingTxIds returns the ids of transactions a block has referenced
// but that have not yet been saved, up to and including maxHeight.
func (s *Store) GetMissingTxIds(ctx context.Context, maxHeight int64) ([][]byte, error) {
	rows, err := s.stmts.Stmt("selectMissingTxIdsUpToHeight").QueryContext(ctx, maxHeight)
	if err != nil {
		return nil, fmt.Errorf("core: getMissingTxIds: %w", err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var id []byte
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("core: scan missing_transaction: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// GetTxIdsMissingOffsets returns up to limit transaction ids that have not
// yet had their absolute chunk offset recorded (ChainOffsetIndex).
func (s *Store) GetTxIdsMissingOffsets(ctx context.Context, limit int) ([][]byte, error) {
	rows, err := s.stmts.Stmt("selectTxIdsMissingOffsets").QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("core: getTxIdsMissingOffsets: %w", err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var id []byte
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("core: scan tx id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// SaveTxOffset records the absolute chunk offset of a transaction's data
// root, the anchor the streaming assembler needs to compute
// per-chunk absolute offsets.
func (s *Store) SaveTxOffset(ctx context.Context, txID []byte, absoluteOffset int64) error {
	_, err := s.stmts.Stmt("upsertTransactionOffset").ExecContext(ctx, txID, absoluteOffset)
	if err != nil {
		return fmt.Errorf("core: saveTxOffset: %w", err)
	}
	return nil
}

// TransactionHeight resolves a transaction's height (nil if not yet
// linked), checked across both new_ and stable_ transactions. Used by
// bundles.Store.SaveDataItem to resolve a data item's height from its root
// transaction.
func (s *Store) TransactionHeight(ctx context.Context, txID []byte) (*int64, error) {
	var h sql.NullInt64
	err := s.stmts.Stmt("selectTransactionHeight").QueryRowContext(ctx, txID, txID).Scan(&h)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("core: transactionHeight: %w", err)
	}
	if !h.Valid {
		return nil, nil
	}
	return &h.Int64, nil
}

// DebugCounts aggregates the invariant checks assigned to core:
// stable-block-count vs. height range, and stable-tx-count vs.
// stable-block-transaction-count.
type DebugCounts struct {
	StableBlockCount    int64
	StableBlockMinHeight  sql.NullInt64
	StableBlockMaxHeight  sql.NullInt64
	StableTxCount     int64
	StableBlockTxCount   int64
	OrphanedStableTxID   []byte // non-nil if a stable tx has no stable_block_transactions row
}

func (s *Store) DebugCounts(ctx context.Context) (DebugCounts, error) {
	var c DebugCounts
	if err := s.stmts.Stmt("selectStableBlockCount").QueryRowContext(ctx).Scan(&c.StableBlockCount); err != nil {
		return c, fmt.Errorf("core: debug stable block count: %w", err)
	}
	if err := s.stmts.Stmt("selectStableBlockHeightRange").QueryRowContext(ctx).Scan(&c.StableBlockMinHeight, &c.StableBlockMaxHeight); err != nil {
		return c, fmt.Errorf("core: debug stable block range: %w", err)
	}
	if err := s.stmts.Stmt("selectStableTxCount").QueryRowContext(ctx).Scan(&c.StableTxCount); err != nil {
		return c, fmt.Errorf("core: debug stable tx count: %w", err)
	}
	if err := s.stmts.Stmt("selectStableBlockTxCount").QueryRowContext(ctx).Scan(&c.StableBlockTxCount); err != nil {
		return c, fmt.Errorf("core: debug stable block tx count: %w", err)
	}
	err := s.stmts.Stmt("selectStableTxIdsNotInStableBlockTransactions").QueryRowContext(ctx).Scan(&c.OrphanedStableTxID)
	if err != nil && err != sql.ErrNoRows {
		return c, fmt.Errorf("core: debug orphaned stable tx: %w", err)
	}
	return c, nil
}
