package bundles

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sm4rtLabel/ar-io-node/internal/ids"
	"github.com/sm4rtLabel/ar-io-node/internal/model"
)

// SaveDataItem upserts a data item, resolving its height from its root
// transaction across core's new_/stable_ transactions when not supplied.
func (s *Store) SaveDataItem(ctx context.Context, item model.DataItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("bundles: begin saveDataItem: %w", err)
	}
	defer tx.Rollback()

	height := item.Height
	if height == nil {
		height, err = s.rootTransactionHeight(ctx, tx, item.RootTransactionID)
		if err != nil {
			return err
		}
	}

	filterID, err := s.resolveFilterID(ctx, tx, item.Filter)
	if err != nil {
		return err
	}

	if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreWallet")).ExecContext(ctx, item.OwnerAddress, nil); err != nil {
		return fmt.Errorf("bundles: insert wallet: %w", err)
	}
	for i, tag := range item.Tags {
		nameHash := ids.TagNameHash(tag.Name)
		valueHash := ids.TagValueHash(tag.Value)
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreTagName")).ExecContext(ctx, nameHash, tag.Name); err != nil {
			return fmt.Errorf("bundles: insert tag_name: %w", err)
		}
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreTagValue")).ExecContext(ctx, valueHash, tag.Value); err != nil {
			return fmt.Errorf("bundles: insert tag_value: %w", err)
		}
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt("upsertNewDataItemTag")).ExecContext(ctx,
			item.ID, nameHash, valueHash, i, item.IndexedAt, height); err != nil {
			return fmt.Errorf("bundles: upsert data_item_tag: %w", err)
		}
	}

	var filterIDArg any
	if filterID != 0 {
		filterIDArg = filterID
	}
	_, err = tx.StmtContext(ctx, s.stmts.Stmt("upsertNewDataItem")).ExecContext(ctx,
		item.ID, item.ParentID, item.RootTransactionID, item.OwnerAddress, item.Anchor, item.Signature, item.Target,
		item.DataOffset, item.DataSize, len(item.Tags), item.ContentType, filterIDArg, item.IndexedAt, height)
	if err != nil {
		return fmt.Errorf("bundles: upsert data_item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("bundles: commit saveDataItem: %w", err)
	}
	return nil
}

// rootTransactionHeight resolves a root transaction's height across the
// attached core schema's new_/stable_ transactions. Ad hoc (not a named
// statement) because it targets the cross-schema "core" attachment rather
// than one of this store's own tables, mirroring core's
// propagateHeightToDataItems.
func (s *Store) rootTransactionHeight(ctx context.Context, tx *sql.Tx, rootTxID []byte) (*int64, error) {
	var h sql.NullInt64
	err := tx.QueryRowContext(ctx, `
		SELECT height FROM core.new_transactions WHERE id = ?
		UNION ALL
		SELECT height FROM core.stable_transactions WHERE id = ?
		LIMIT 1`, rootTxID, rootTxID).Scan(&h)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("bundles: resolve root transaction height: %w", err)
	}
	if !h.Valid {
		return nil, nil
	}
	return &h.Int64, nil
}

// resolveFilterID looks up or creates the filters row for filter, caching
// the result per-worker. An empty filter resolves to 0 (NULL on the wire).
func (s *Store) resolveFilterID(ctx context.Context, tx *sql.Tx, filter string) (int64, error) {
	if filter == "" {
		return 0, nil
	}
	s.mu.Lock()
	if id, ok := s.filterIds[filter]; ok {
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreFilter")).ExecContext(ctx, filter); err != nil {
		return 0, fmt.Errorf("bundles: insert filter: %w", err)
	}
	var id int64
	if err := tx.StmtContext(ctx, s.stmts.Stmt("selectFilterId")).QueryRowContext(ctx, filter).Scan(&id); err != nil {
		return 0, fmt.Errorf("bundles: select filter id: %w", err)
	}

	s.mu.Lock()
	s.filterIds[filter] = id
	s.mu.Unlock()
	return id, nil
}

func (s *Store) resolveBundleFormatID(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	s.mu.Lock()
	if id, ok := s.bundleFormatIds[name]; ok {
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreBundleFormat")).ExecContext(ctx, name); err != nil {
		return 0, fmt.Errorf("bundles: insert bundle_format: %w", err)
	}
	var id int64
	if err := tx.StmtContext(ctx, s.stmts.Stmt("selectBundleFormatId")).QueryRowContext(ctx, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("bundles: select bundle_format id: %w", err)
	}

	s.mu.Lock()
	s.bundleFormatIds[name] = id
	s.mu.Unlock()
	return id, nil
}

// SaveBundle upserts a bundle lifecycle record by id, resolving its format
// and filter ids via the hot-cached dimension tables.
func (s *Store) SaveBundle(ctx context.Context, rec model.BundleRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("bundles: begin saveBundle: %w", err)
	}
	defer tx.Rollback()

	formatID, err := s.resolveBundleFormatID(ctx, tx, string(rec.Format))
	if err != nil {
		return err
	}
	unbundleFilterID, err := s.resolveFilterID(ctx, tx, rec.UnbundleFilter)
	if err != nil {
		return err
	}
	indexFilterID, err := s.resolveFilterID(ctx, tx, rec.IndexFilter)
	if err != nil {
		return err
	}

	_, err = tx.StmtContext(ctx, s.stmts.Stmt("upsertNewBundle")).ExecContext(ctx,
		rec.ID, rec.RootTransactionID, formatID,
		nullableID(unbundleFilterID), nullableID(indexFilterID),
		rec.DataItemCount, rec.MatchedDataItemCount,
		rec.QueuedAt, rec.SkippedAt, rec.UnbundledAt, rec.FullyIndexedAt)
	if err != nil {
		return fmt.Errorf("bundles: upsert bundle: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("bundles: commit saveBundle: %w", err)
	}
	return nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// UpdateBundlesFullyIndexedAt stamps a bundle's fully_indexed_at timestamp.
// Per Open Questions, this is a write and is routed through the
// bundles pool's write queue rather than the read queue the source used.
func (s *Store) UpdateBundlesFullyIndexedAt(ctx context.Context, bundleID []byte, at int64) error {
	_, err := s.stmts.Stmt("updateBundleFullyIndexedAt").ExecContext(ctx, at, bundleID)
	if err != nil {
		return fmt.Errorf("bundles: updateBundlesFullyIndexedAt: %w", err)
	}
	return nil
}

// UpdateBundlesForFilterChange repoints every data item under rootTxID at a
// newly resolved filter, for when an operator edits the active index/
// unbundle filter after initial ingestion.
func (s *Store) UpdateBundlesForFilterChange(ctx context.Context, rootTxID []byte, filter string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("bundles: begin updateBundlesForFilterChange: %w", err)
	}
	defer tx.Rollback()

	filterID, err := s.resolveFilterID(ctx, tx, filter)
	if err != nil {
		return err
	}
	if _, err := tx.StmtContext(ctx, s.stmts.Stmt("updateDataItemsForFilterChange")).ExecContext(ctx, nullableID(filterID), rootTxID); err != nil {
		return fmt.Errorf("bundles: update data_items for filter change: %w", err)
	}
	return tx.Commit()
}

// ResetToHeight rolls back the bundles store's new_* content above h. Run
// as its own transaction, separate from core.Store.ResetToHeight: cross-
// store atomicity is not required here.
func (s *Store) ResetToHeight(ctx context.Context, h int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("bundles: begin resetToHeight: %w", err)
	}
	defer tx.Rollback()

	names := []string{
		"clearHeightsOnNewDataItemsAboveHeight",
		"clearHeightsOnNewDataItemTagsAboveHeight",
	}
	for _, name := range names {
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt(name)).ExecContext(ctx, h); err != nil {
			return fmt.Errorf("bundles: resetToHeight %s: %w", name, err)
		}
	}
	return tx.Commit()
}
