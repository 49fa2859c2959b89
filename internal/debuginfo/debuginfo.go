// Package debuginfo aggregates per-store invariant checks into the single
// getDebugInfo-shaped document, for the CLI debug subcommand and periodic
// health logging.
package debuginfo

import (
	"context"
	"time"

	"github.com/sm4rtLabel/ar-io-node/internal/store/bundles"
	"github.com/sm4rtLabel/ar-io-node/internal/store/core"
)

// StaleBundleCutoff is how old an unbundled-but-not-fully-indexed bundle
// must be before it is flagged as stale ("older than 24 hours").
const StaleBundleCutoff = 24 * time.Hour

// Info is the aggregated debug document.
type Info struct {
	Counts     core.DebugCounts
	StaleBundles  int64
	Errors     []string
	Warnings    []string
}

// CoreCounter and BundleStaler are the narrow slices of core.Store and
// bundles.Store this package depends on, so it can be unit tested against
// fakes instead of real SQLite stores.
type CoreCounter interface {
	DebugCounts(ctx context.Context) (core.DebugCounts, error)
}

type BundleStaler interface {
	StaleBundleCount(ctx context.Context, cutoff int64) (int64, error)
}

var (
	_ CoreCounter = (*core.Store)(nil)
	_ BundleStaler = (*bundles.Store)(nil)
)

// Get builds the debug document: counts, plus consistency errors and
// freshness warnings.
func Get(ctx context.Context, coreStore CoreCounter, bundleStore BundleStaler, now time.Time) (Info, error) {
	counts, err := coreStore.DebugCounts(ctx)
	if err != nil {
		return Info{}, err
	}

	info := Info{Counts: counts}

	if counts.StableBlockMinHeight.Valid && counts.StableBlockMaxHeight.Valid {
		expected := counts.StableBlockMaxHeight.Int64 - counts.StableBlockMinHeight.Int64 + 1
		if counts.StableBlockCount != expected {
			info.Errors = append(info.Errors, "stable block count does not match height range")
		}
	}
	if counts.StableTxCount != counts.StableBlockTxCount {
		info.Errors = append(info.Errors, "stable transaction count does not match stable block-transaction count")
	}
	if counts.OrphanedStableTxID != nil {
		info.Errors = append(info.Errors, "stable transaction exists with no stable block-transaction row")
	}

	cutoff := now.Add(-StaleBundleCutoff).Unix()
	stale, err := bundleStore.StaleBundleCount(ctx, cutoff)
	if err != nil {
		return Info{}, err
	}
	info.StaleBundles = stale
	if stale > 0 {
		info.Warnings = append(info.Warnings, "bundle unbundled more than 24 hours ago is still not fully indexed")
	}

	return info, nil
}
