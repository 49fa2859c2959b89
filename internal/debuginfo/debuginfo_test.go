package debuginfo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sm4rtLabel/ar-io-node/internal/store/core"
)

type fakeCounter struct{ counts core.DebugCounts }

func (f fakeCounter) DebugCounts(ctx context.Context) (core.DebugCounts, error) { return f.counts, nil }

type fakeStaler struct{ stale int64 }

func (f fakeStaler) StaleBundleCount(ctx context.Context, cutoff int64) (int64, error) {
	return f.stale, nil
}

func TestGet_NoDiscrepancies(t *testing.T) {
	counts := core.DebugCounts{
		StableBlockCount:     5,
		StableBlockMinHeight: sql.NullInt64{Int64: 0, Valid: true},
		StableBlockMaxHeight: sql.NullInt64{Int64: 4, Valid: true},
		StableTxCount:        5,
		StableBlockTxCount:   5,
	}
	info, err := Get(context.Background(), fakeCounter{counts}, fakeStaler{0}, time.Now())
	require.NoError(t, err)
	require.Empty(t, info.Errors)
	require.Empty(t, info.Warnings)
}

func TestGet_FlagsBlockCountMismatch(t *testing.T) {
	counts := core.DebugCounts{
		StableBlockCount:     3,
		StableBlockMinHeight: sql.NullInt64{Int64: 0, Valid: true},
		StableBlockMaxHeight: sql.NullInt64{Int64: 4, Valid: true},
	}
	info, err := Get(context.Background(), fakeCounter{counts}, fakeStaler{0}, time.Now())
	require.NoError(t, err)
	require.Contains(t, info.Errors[0], "stable block count")
}

func TestGet_FlagsStaleBundleWarning(t *testing.T) {
	info, err := Get(context.Background(), fakeCounter{}, fakeStaler{2}, time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 2, info.StaleBundles)
	require.Len(t, info.Warnings, 1)
}
