package bundles

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sm4rtLabel/ar-io-node/internal/model"
)

func testDataItem(height int64) model.DataItem {
	h := height
	rootID := []byte{0x01, byte(height)}
	return model.DataItem{
		ID:                []byte{0x02, byte(height)},
		ParentID:          rootID,
		RootTransactionID: rootID,
		OwnerAddress:      []byte{0x03},
		DataSize:          100,
		IndexedAt:         1_600_000_000 + height,
		Height:            &h,
		Filter:            "App-Name",
		Tags: []model.Tag{
			{Name: []byte("App-Name"), Value: []byte("Foo")},
		},
	}
}

func TestSaveDataItem_Idempotent(t *testing.T) {
	s, ctx := setupTestStore(t)

	item := testDataItem(10)
	require.NoError(t, s.SaveDataItem(ctx, item))
	require.NoError(t, s.SaveDataItem(ctx, item))

	var count int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM new_data_items WHERE id = ?", item.ID).Scan(&count))
	require.Equal(t, 1, count)
}

func TestResolveFilterID_Cached(t *testing.T) {
	s, ctx := setupTestStore(t)
	tx, err := s.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	id1, err := s.resolveFilterID(ctx, tx, "App-Name")
	require.NoError(t, err)
	require.NotZero(t, id1)

	id2, err := s.resolveFilterID(ctx, tx, "App-Name")
	require.NoError(t, err)
	require.Equal(t, id1, id2)
}

func TestSaveBundle_Upsert(t *testing.T) {
	s, ctx := setupTestStore(t)

	rootID := []byte{0x09}
	queuedAt := int64(100)
	rec := model.BundleRecord{
		ID:                rootID,
		RootTransactionID: rootID,
		Format:            model.BundleFormatANS104,
		DataItemCount:     2,
		QueuedAt:          &queuedAt,
	}
	require.NoError(t, s.SaveBundle(ctx, rec))

	unbundledAt := int64(200)
	rec.UnbundledAt = &unbundledAt
	require.NoError(t, s.SaveBundle(ctx, rec))

	var dataItemCount int
	var queued, unbundled *int64
	require.NoError(t, s.db.QueryRowContext(ctx,
		"SELECT data_item_count, queued_at, unbundled_at FROM new_bundles WHERE id = ?", rootID,
	).Scan(&dataItemCount, &queued, &unbundled))
	require.Equal(t, 2, dataItemCount)
	require.EqualValues(t, 100, *queued)
	require.EqualValues(t, 200, *unbundled)
}

func TestResetToHeight_ClearsDataItemHeights(t *testing.T) {
	s, ctx := setupTestStore(t)

	item := testDataItem(10)
	require.NoError(t, s.SaveDataItem(ctx, item))

	require.NoError(t, s.ResetToHeight(ctx, 5))

	var height *int64
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT height FROM new_data_items WHERE id = ?", item.ID).Scan(&height))
	require.Nil(t, height)
}
