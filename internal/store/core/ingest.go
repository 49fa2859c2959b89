package core

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sm4rtLabel/ar-io-node/internal/ids"
	"github.com/sm4rtLabel/ar-io-node/internal/model"
)

// SaveBlockAndTxs atomically inserts a block, its transactions, and
// placeholders for transactions the chain reports but has not yet sent us,
// then (every StableFlushInterval blocks) promotes content below the fork
// depth to stable and garbage-collects the new_* rows that promotion just
// made redundant.
func (s *Store) SaveBlockAndTxs(ctx context.Context, block model.Block, txs []model.Transaction, missingTxIDs [][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("core: begin saveBlockAndTxs: %w", err)
	}
	defer tx.Rollback()

	if err := s.insertBlock(ctx, tx, block); err != nil {
		return err
	}
	for i, t := range txs {
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreNewBlockTransaction")).ExecContext(ctx,
			block.Height, t.ID, i); err != nil {
			return fmt.Errorf("core: insert block_transaction: %w", err)
		}
		if err := s.propagateHeightToDataItems(ctx, tx, t.ID, block.Height); err != nil {
			return err
		}
		if err := s.upsertTransactionTx(ctx, tx, t, &block.Height); err != nil {
			return err
		}
	}
	for _, missingID := range missingTxIDs {
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreMissingTransaction")).ExecContext(ctx,
			block.Height, missingID); err != nil {
			return fmt.Errorf("core: insert missing_transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("core: commit saveBlockAndTxs: %w", err)
	}

	if block.Height%s.cfg.StableFlushInterval == 0 {
		if err := s.promoteAndGC(ctx, block.Height); err != nil {
			return fmt.Errorf("core: promote after height %d: %w", block.Height, err)
		}
	}
	return nil
}

func (s *Store) insertBlock(ctx context.Context, tx *sql.Tx, b model.Block) error {
	_, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreNewBlock")).ExecContext(ctx,
		b.Height, b.IndepHash, b.PreviousBlock, b.Nonce, b.MiningHash, b.Timestamp,
		b.Diff, b.CumulativeDiff, b.LastRetarget, nullableBytes(b.RewardAddr), b.RewardPool,
		b.BlockSize, b.WeaveSize,
		b.USDToARRate.Dividend, b.USDToARRate.Divisor,
		b.ScheduledUSDToARRate.Dividend, b.ScheduledUSDToARRate.Divisor,
		b.HashListMerkle, b.WalletListHash, b.TxRoot, b.TxCount, b.MissingTxCount)
	if err != nil {
		return fmt.Errorf("core: insert block: %w", err)
	}
	return nil
}

// propagateHeightToDataItems sets height on any bundles.new_data_items rows
// already indexed for this root transaction, now that its block is known.
// It runs inside the core transaction against the attached bundles schema,
// which SQLite includes in the same transaction. When Open was given no
// bundles path there is no such schema and it does nothing.
func (s *Store) propagateHeightToDataItems(ctx context.Context, tx *sql.Tx, rootTxID []byte, height int64) error {
	var attached int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_database_list WHERE name = 'bundles'`).Scan(&attached); err != nil {
		return fmt.Errorf("core: check bundles attachment: %w", err)
	}
	if attached == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE bundles.new_data_items SET height = ? WHERE root_transaction_id = ? AND height IS NULL`,
		height, rootTxID)
	if err != nil {
		return fmt.Errorf("core: propagate height to data items: %w", err)
	}
	return nil
}

func (s *Store) upsertTransactionTx(ctx context.Context, tx *sql.Tx, t model.Transaction, height *int64) error {
	if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreWallet")).ExecContext(ctx, t.OwnerAddress, nil); err != nil {
		return fmt.Errorf("core: insert wallet: %w", err)
	}
	for i, tag := range t.Tags {
		nameHash := ids.TagNameHash(tag.Name)
		valueHash := ids.TagValueHash(tag.Value)
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreTagName")).ExecContext(ctx, nameHash, tag.Name); err != nil {
			return fmt.Errorf("core: insert tag_name: %w", err)
		}
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreTagValue")).ExecContext(ctx, valueHash, tag.Value); err != nil {
			return fmt.Errorf("core: insert tag_value: %w", err)
		}
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt("upsertNewTransactionTag")).ExecContext(ctx,
			t.ID, nameHash, valueHash, i, t.IndexedAt, height); err != nil {
			return fmt.Errorf("core: upsert transaction_tag: %w", err)
		}
	}
	_, err := tx.StmtContext(ctx, s.stmts.Stmt("upsertNewTransaction")).ExecContext(ctx,
		t.ID, t.Signature, t.Format, t.LastTx, t.OwnerAddress, t.Target, t.Quantity, t.Reward,
		t.DataSize, t.DataRoot, len(t.Tags), t.ContentType, t.CreatedAt, t.IndexedAt, height)
	if err != nil {
		return fmt.Errorf("core: upsert transaction: %w", err)
	}
	return nil
}

// SaveTx upserts a single, possibly-not-yet-linked transaction. If a
// missing_transactions placeholder exists for it, the placeholder's
// recorded height is used and the placeholder is removed.
func (s *Store) SaveTx(ctx context.Context, t model.Transaction) error {
	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("core: begin saveTx: %w", err)
	}
	defer txn.Rollback()

	var height *int64
	row := txn.StmtContext(ctx, s.stmts.Stmt("selectMissingTransactionHeight")).QueryRowContext(ctx, t.ID)
	var h sql.NullInt64
	if err := row.Scan(&h); err == nil && h.Valid {
		height = &h.Int64
	} else if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("core: select missing_transaction: %w", err)
	}

	if err := s.upsertTransactionTx(ctx, txn, t, height); err != nil {
		return err
	}
	if _, err := txn.StmtContext(ctx, s.stmts.Stmt("deleteMissingTransaction")).ExecContext(ctx, t.ID); err != nil {
		return fmt.Errorf("core: delete missing_transaction: %w", err)
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("core: commit saveTx: %w", err)
	}
	return nil
}

// ResetToHeight rolls back the core store's new_* content above h, leaving
// stable_* untouched and no new_* row above h. This touches only core's
// own tables — bundles keeps its own ResetToHeight, run as a separate
// transaction by the caller, since stable state is not touched and
// cross-store atomicity is not required.
func (s *Store) ResetToHeight(ctx context.Context, h int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("core: begin resetToHeight: %w", err)
	}
	defer tx.Rollback()

	names := []string{
		"clearHeightsOnNewTransactionsAboveHeight",
		"clearHeightsOnNewTransactionTagsAboveHeight",
		"deleteNewBlockTransactionsAboveHeight",
		"deleteNewBlocksAboveHeight",
		"deleteMissingTransactionsAboveHeight",
	}
	for _, name := range names {
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt(name)).ExecContext(ctx, h); err != nil {
			return fmt.Errorf("core: resetToHeight %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("core: commit resetToHeight: %w", err)
	}
	return nil
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
