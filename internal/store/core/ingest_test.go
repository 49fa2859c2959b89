package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sm4rtLabel/ar-io-node/internal/model"
)

func testBlock(height int64) model.Block {
	return model.Block{
		Height:     height,
		IndepHash:  []byte{byte(height), byte(height >> 8)},
		Timestamp:  1_600_000_000 + height,
		Diff:       "1",
		CumulativeDiff: "1",
		TxCount:    1,
	}
}

func testTx(height int64) model.Transaction {
	id := []byte{byte(height), byte(height >> 8), 0xAA}
	return model.Transaction{
		ID:           id,
		OwnerAddress: []byte{0x01, 0x02},
		Quantity:     "0",
		Reward:       "0",
		IndexedAt:    1_600_000_000 + height,
	}
}

// S1: promote. Insert blocks 0..54, each with one tx. After height 50
// (50 % 5 == 0), endHeight = 0; stable_blocks contains exactly height 0.
// After height 55, endHeight = 5; stable_blocks contains 0..5.
func TestSaveBlockAndTxs_Promote(t *testing.T) {
	s, ctx := setupTestStore(t)

	for h := int64(0); h <= 54; h++ {
		block := testBlock(h)
		tx := testTx(h)
		require.NoError(t, s.SaveBlockAndTxs(ctx, block, []model.Transaction{tx}, nil))
	}

	counts, err := s.DebugCounts(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.StableBlockCount)
	require.EqualValues(t, 0, counts.StableBlockMinHeight.Int64)
	require.EqualValues(t, 0, counts.StableBlockMaxHeight.Int64)

	block := testBlock(55)
	tx := testTx(55)
	require.NoError(t, s.SaveBlockAndTxs(ctx, block, []model.Transaction{tx}, nil))

	counts, err = s.DebugCounts(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 6, counts.StableBlockCount)
	require.EqualValues(t, 0, counts.StableBlockMinHeight.Int64)
	require.EqualValues(t, 5, counts.StableBlockMaxHeight.Int64)
}

// S2: reset. After S1, resetToHeight(52) leaves new_blocks with only
// heights <=52, stable_blocks unchanged, and clears height on new
// transactions above 52.
func TestResetToHeight(t *testing.T) {
	s, ctx := setupTestStore(t)

	for h := int64(0); h <= 54; h++ {
		require.NoError(t, s.SaveBlockAndTxs(ctx, testBlock(h), []model.Transaction{testTx(h)}, nil))
	}
	countsBefore, err := s.DebugCounts(ctx)
	require.NoError(t, err)

	require.NoError(t, s.ResetToHeight(ctx, 52))

	maxHeight, err := s.GetMaxHeight(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 52, maxHeight)

	countsAfter, err := s.DebugCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, countsBefore, countsAfter)

	height, err := s.TransactionHeight(ctx, testTx(53).ID)
	require.NoError(t, err)
	require.Nil(t, height)
}

// Ingestion idempotence: duplicating a SaveBlockAndTxs call is a no-op.
func TestSaveBlockAndTxs_Idempotent(t *testing.T) {
	s, ctx := setupTestStore(t)

	block := testBlock(1)
	tx := testTx(1)
	require.NoError(t, s.SaveBlockAndTxs(ctx, block, []model.Transaction{tx}, nil))
	require.NoError(t, s.SaveBlockAndTxs(ctx, block, []model.Transaction{tx}, nil))

	height, err := s.TransactionHeight(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, height)
	require.EqualValues(t, 1, *height)
}

func TestSaveTx_UsesMissingTransactionHeight(t *testing.T) {
	s, ctx := setupTestStore(t)

	block := testBlock(3)
	missingID := []byte{0xFE, 0xED}
	require.NoError(t, s.SaveBlockAndTxs(ctx, block, nil, [][]byte{missingID}))

	missing, err := s.GetMissingTxIds(ctx, 3)
	require.NoError(t, err)
	require.Len(t, missing, 1)

	tx := model.Transaction{ID: missingID, OwnerAddress: []byte{0x01}, Quantity: "0", Reward: "0", IndexedAt: 1}
	require.NoError(t, s.SaveTx(ctx, tx))

	height, err := s.TransactionHeight(ctx, missingID)
	require.NoError(t, err)
	require.NotNil(t, height)
	require.EqualValues(t, 3, *height)

	missing, err = s.GetMissingTxIds(ctx, 3)
	require.NoError(t, err)
	require.Empty(t, missing)
}
