package bundles

import (
	"context"
	"fmt"
)

// GetFailedBundleIds returns bundles that were skipped but never
// successfully unbundled, oldest first, for retry scheduling.
func (s *Store) GetFailedBundleIds(ctx context.Context, limit int) ([][]byte, error) {
	rows, err := s.stmts.Stmt("selectFailedBundleIds").QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("bundles: getFailedBundleIds: %w", err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var id []byte
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("bundles: scan bundle id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// BackfillBundles returns root transaction ids that carry data items but
// have no corresponding bundle lifecycle record, so the unbundler can
// retroactively create one.
func (s *Store) BackfillBundles(ctx context.Context, limit int) ([][]byte, error) {
	rows, err := s.stmts.Stmt("selectBackfillBundleIds").QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("bundles: backfillBundles: %w", err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var id []byte
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("bundles: scan root transaction id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// StaleBundleCount counts bundles unbundled before cutoff that never
// reached fully_indexed_at, for the "fully-indexed bundle older
// than 24 hours" debug warning.
func (s *Store) StaleBundleCount(ctx context.Context, cutoff int64) (int64, error) {
	var n int64
	if err := s.stmts.Stmt("selectStaleFullyIndexedCutoffBundles").QueryRowContext(ctx, cutoff).Scan(&n); err != nil {
		return 0, fmt.Errorf("bundles: staleBundleCount: %w", err)
	}
	return n, nil
}
