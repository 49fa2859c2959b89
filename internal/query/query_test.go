package query

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sm4rtLabel/ar-io-node/internal/model"
	"github.com/sm4rtLabel/ar-io-node/internal/store/bundles"
	"github.com/sm4rtLabel/ar-io-node/internal/store/core"
)

// setupPlanner wires a core store (bundles attached) and a bundles store
// (core attached) onto the same two database files, mirroring how
// indexcore would construct them, and returns a Planner over the core
// connection (the one visible schema that sees both).
func setupPlanner(t *testing.T) (*Planner, *core.Store, *bundles.Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	corePath := filepath.Join(dir, "core.db")
	bundlesPath := filepath.Join(dir, "bundles.db")

	coreStore, err := core.Open(ctx, corePath, bundlesPath, core.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { coreStore.Close() })

	bundlesStore, err := bundles.Open(ctx, bundlesPath, corePath, bundles.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { bundlesStore.Close() })

	return NewPlanner(coreStore.DB()), coreStore, bundlesStore, ctx
}

func testBlock(height int64) model.Block {
	return model.Block{
		Height:     height,
		IndepHash:   []byte{byte(height), byte(height >> 8), 0x01},
		Timestamp:   1_700_000_000 + height,
		Diff:      "1",
		CumulativeDiff: "1",
		TxCount:    1,
	}
}

func testTx(height int64, tags...model.Tag) model.Transaction {
	return model.Transaction{
		ID:      []byte{byte(height), byte(height >> 8), 0xAA},
		OwnerAddress: []byte{0x01, 0x02},
		Quantity:   "0",
		Reward:    "0",
		IndexedAt:  1_700_000_000 + height,
		Tags:     tags,
	}
}

// testTxAt is testTx with an extra discriminator byte, for multiple
// transactions sharing one block (and therefore one height/indexed_at) that
// still need distinct ids. indexedAt is pinned to the same value testTx(height)
// uses so the only thing distinguishing same-block rows is their
// blockTransactionIndex (assigned by SaveBlockAndTxs as slice position).
func testTxAt(height int64, disc byte) model.Transaction {
	return model.Transaction{
		ID:      []byte{byte(height), byte(height >> 8), 0xAA, disc},
		OwnerAddress: []byte{0x01, 0x02},
		Quantity:   "0",
		Reward:    "0",
		IndexedAt:  1_700_000_000 + height,
	}
}

// S3: cursor paging. Seven blocks/txs at heights 0..6, page size 3,
// descending order: pages of 3, 3 and 1 rows, resuming strictly
// after the last edge's cursor each time, with no row repeated or
// skipped.
func TestGetGqlTransactions_CursorPaging(t *testing.T) {
	p, coreStore, _, ctx := setupPlanner(t)

	for h := int64(0); h < 7; h++ {
		require.NoError(t, coreStore.SaveBlockAndTxs(ctx, testBlock(h), []model.Transaction{testTx(h)}, nil))
	}

	var seen [][]byte
	cursor := ""
	for {
		page, err := p.GetGqlTransactions(ctx, TransactionQueryParams{
			PageSize: 3,
			Cursor:  cursor,
			SortOrder: HeightDescending,
		})
		require.NoError(t, err)
		for _, e := range page.Edges {
			seen = append(seen, e.Node.ID)
		}
		if !page.PageInfo.HasNextPage {
			break
		}
		cursor = page.Edges[len(page.Edges)-1].Cursor
	}

	require.Len(t, seen, 7)
	// descending height means the first tx seen is height 6's.
	require.Equal(t, testTx(6).ID, seen[0])
	require.Equal(t, testTx(0).ID, seen[len(seen)-1])
}

// S4: tag match. Two transactions share an App-Name but differ on a
// second tag; filtering on both must return only the one matching row.
func TestGetGqlTransactions_TagFilter(t *testing.T) {
	p, coreStore, _, ctx := setupPlanner(t)

	txA := testTx(1, model.Tag{Name: []byte("App-Name"), Value: []byte("Widget")}, model.Tag{Name: []byte("Action"), Value: []byte("Post")})
	txB := testTx(2, model.Tag{Name: []byte("App-Name"), Value: []byte("Widget")}, model.Tag{Name: []byte("Action"), Value: []byte("Comment")})
	require.NoError(t, coreStore.SaveBlockAndTxs(ctx, testBlock(1), []model.Transaction{txA}, nil))
	require.NoError(t, coreStore.SaveBlockAndTxs(ctx, testBlock(2), []model.Transaction{txB}, nil))

	page, err := p.GetGqlTransactions(ctx, TransactionQueryParams{
		PageSize: 10,
		SortOrder: HeightDescending,
		Tags: []TagFilter{
			{Name: []byte("App-Name"), Values: [][]byte{[]byte("Widget")}},
			{Name: []byte("Action"), Values: [][]byte{[]byte("Post")}},
		},
	})
	require.NoError(t, err)
	require.Len(t, page.Edges, 1)
	require.Equal(t, txA.ID, page.Edges[0].Node.ID)
}

// S5: bundledIn filtering. A bare transaction and a data item bundled
// inside a distinct parent both exist; bundledIn: null must return only
// the bare transaction, and bundledIn: [parent] must return only the
// item.
func TestGetGqlTransactions_BundledInFiltering(t *testing.T) {
	p, coreStore, bundlesStore, ctx := setupPlanner(t)

	txHeight := int64(10)
	require.NoError(t, coreStore.SaveBlockAndTxs(ctx, testBlock(txHeight), []model.Transaction{testTx(txHeight)}, nil))

	parentID := []byte{0xBB, 0xBB}
	item := model.DataItem{
		ID:        []byte{0xCC, 0xCC},
		ParentID:     parentID,
		RootTransactionID: testTx(txHeight).ID,
		OwnerAddress:   []byte{0x03},
		DataSize:     5,
		IndexedAt:     1_700_000_100,
		Height:      &txHeight,
	}
	require.NoError(t, bundlesStore.SaveDataItem(ctx, item))

	nullPage, err := p.GetGqlTransactions(ctx, TransactionQueryParams{
		PageSize: 10,
		SortOrder: HeightDescending,
		BundledIn: &BundledIn{Mode: BundledInNull},
	})
	require.NoError(t, err)
	require.Len(t, nullPage.Edges, 1)
	require.False(t, nullPage.Edges[0].Node.IsDataItem())

	listPage, err := p.GetGqlTransactions(ctx, TransactionQueryParams{
		PageSize: 10,
		SortOrder: HeightDescending,
		BundledIn: &BundledIn{Mode: BundledInList, IDs: [][]byte{parentID}},
	})
	require.NoError(t, err)
	require.Len(t, listPage.Edges, 1)
	require.True(t, listPage.Edges[0].Node.IsDataItem())
	require.Equal(t, item.ID, listPage.Edges[0].Node.ID)
}

// Invariant 6: union ordering. Once promoted and garbage-collected, stable
// rows (old, confirmed) and new rows (recent, unconfirmed) still merge
// into one monotonic sequence with no row duplicated or dropped.
func TestGetGqlTransactions_UnionOrderingAcrossStableAndNew(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	corePath := filepath.Join(dir, "core.db")
	bundlesPath := filepath.Join(dir, "bundles.db")
	cfg := core.Config{MaxForkDepth: 2, StableFlushInterval: 1, NewTxCleanupWait: 0}
	coreStore, err := core.Open(ctx, corePath, bundlesPath, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { coreStore.Close() })
	bundlesStore, err := bundles.Open(ctx, bundlesPath, corePath, bundles.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { bundlesStore.Close() })
	p := NewPlanner(coreStore.DB())

	for h := int64(0); h <= 6; h++ {
		require.NoError(t, coreStore.SaveBlockAndTxs(ctx, testBlock(h), []model.Transaction{testTx(h)}, nil))
	}
	// heights <= 4 (tip 6 - forkDepth 2) are stable and GC'd from new_ with
	// NewTxCleanupWait 0, so they now exist only in the stable_ tables;
	// heights 5,6 remain only in new_.

	page, err := p.GetGqlTransactions(ctx, TransactionQueryParams{PageSize: 100, SortOrder: HeightDescending})
	require.NoError(t, err)
	require.Len(t, page.Edges, 7)
	for i := 1; i < len(page.Edges); i++ {
		require.GreaterOrEqual(t, *page.Edges[i-1].Node.Height, *page.Edges[i].Node.Height)
	}
	require.EqualValues(t, 6, *page.Edges[0].Node.Height)
	require.EqualValues(t, 0, *page.Edges[len(page.Edges)-1].Node.Height)
}

// Testable Property 6 (full key): three transactions share one block
// (same height, same indexed_at), distinguished only by
// blockTransactionIndex. Paging with a page size that splits the tied
// group across pages must still visit every row exactly once, in
// blockTransactionIndex order, matching the in-block insertion order —
// a planner ordering only on (height, indexedAt, id) would page these
// arbitrarily.
func TestGetGqlTransactions_BlockTransactionIndexOrdering(t *testing.T) {
	p, coreStore, _, ctx := setupPlanner(t)

	txs := []model.Transaction{testTxAt(5, 0x01), testTxAt(5, 0x02), testTxAt(5, 0x03)}
	require.NoError(t, coreStore.SaveBlockAndTxs(ctx, testBlock(5), txs, nil))

	var seen [][]byte
	cursor := ""
	for {
		page, err := p.GetGqlTransactions(ctx, TransactionQueryParams{
			PageSize: 2,
			Cursor:  cursor,
			SortOrder: HeightDescending,
		})
		require.NoError(t, err)
		for _, e := range page.Edges {
			seen = append(seen, e.Node.ID)
		}
		if !page.PageInfo.HasNextPage {
			break
		}
		cursor = page.Edges[len(page.Edges)-1].Cursor
	}

	require.Len(t, seen, 3)
	// descending order sorts the higher blockTransactionIndex first.
	require.Equal(t, txs[2].ID, seen[0])
	require.Equal(t, txs[1].ID, seen[1])
	require.Equal(t, txs[0].ID, seen[2])
}

// Testable Property 6 (data-item tier): two data items bundled under the
// same parent, sharing height and indexed_at, distinguished only by id.
// Paging across the tied pair must not skip or repeat either one.
func TestGetGqlTransactions_DataItemIDOrdering(t *testing.T) {
	p, coreStore, bundlesStore, ctx := setupPlanner(t)

	height := int64(8)
	require.NoError(t, coreStore.SaveBlockAndTxs(ctx, testBlock(height), []model.Transaction{testTx(height)}, nil))

	parentID := []byte{0xDD, 0xDD}
	itemA := model.DataItem{
		ID:        []byte{0x01, 0xEE},
		ParentID:     parentID,
		RootTransactionID: testTx(height).ID,
		OwnerAddress:   []byte{0x03},
		DataSize:     1,
		IndexedAt:     1_700_000_500,
		Height:      &height,
	}
	itemB := model.DataItem{
		ID:        []byte{0x02, 0xEE},
		ParentID:     parentID,
		RootTransactionID: testTx(height).ID,
		OwnerAddress:   []byte{0x03},
		DataSize:     1,
		IndexedAt:     1_700_000_500,
		Height:      &height,
	}
	require.NoError(t, bundlesStore.SaveDataItem(ctx, itemA))
	require.NoError(t, bundlesStore.SaveDataItem(ctx, itemB))

	var seen [][]byte
	cursor := ""
	for {
		page, err := p.GetGqlTransactions(ctx, TransactionQueryParams{
			PageSize: 1,
			Cursor:  cursor,
			SortOrder: HeightDescending,
			BundledIn: &BundledIn{Mode: BundledInList, IDs: [][]byte{parentID}},
		})
		require.NoError(t, err)
		for _, e := range page.Edges {
			seen = append(seen, e.Node.ID)
		}
		if !page.PageInfo.HasNextPage {
			break
		}
		cursor = page.Edges[len(page.Edges)-1].Cursor
	}

	require.Len(t, seen, 2)
	// descending order sorts the larger data_item_id first.
	require.Equal(t, itemB.ID, seen[0])
	require.Equal(t, itemA.ID, seen[1])
}

func TestGetGqlTransaction_PointLookup(t *testing.T) {
	p, coreStore, _, ctx := setupPlanner(t)
	require.NoError(t, coreStore.SaveBlockAndTxs(ctx, testBlock(1), []model.Transaction{testTx(1)}, nil))

	n, err := p.GetGqlTransaction(ctx, testTx(1).ID)
	require.NoError(t, err)
	require.NotNil(t, n)
	require.Equal(t, testTx(1).ID, n.ID)

	n, err = p.GetGqlTransaction(ctx, []byte{0xFF, 0xFF, 0xFF})
	require.NoError(t, err)
	require.Nil(t, n)
}
