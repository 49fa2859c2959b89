package data

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sm4rtLabel/ar-io-node/internal/model"
)

func setupTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, ctx
}

func TestSaveDataContentAttributes_RoundTrip(t *testing.T) {
	s, ctx := setupTestStore(t)

	cachedAt := int64(42)
	attrs := model.DataContentAttributes{
		ID:          []byte{0x01},
		DataRoot:    []byte{0x02},
		Hash:        []byte{0x03},
		DataSize:    1024,
		ContentType: "text/plain",
		CachedAt:    &cachedAt,
	}
	require.NoError(t, s.SaveDataContentAttributes(ctx, attrs))
	require.NoError(t, s.SaveDataContentAttributes(ctx, attrs))

	got, err := s.GetDataAttributes(ctx, attrs.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, attrs.Hash, got.Hash)
	require.Equal(t, attrs.DataSize, got.DataSize)
	require.Equal(t, attrs.ContentType, got.ContentType)
	require.EqualValues(t, 42, *got.CachedAt)

	missing, err := s.GetDataAttributes(ctx, []byte{0xFF})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestGetDataParent_DirectAndByHash(t *testing.T) {
	s, ctx := setupTestStore(t)

	parentID := []byte{0x10}
	nestedID := []byte{0x11}
	require.NoError(t, s.SaveNestedDataId(ctx, nestedID, parentID, 0, 100))

	got, err := s.GetDataParent(ctx, nestedID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, parentID, got.ParentID)
	require.EqualValues(t, 100, got.DataSize)

	hash := []byte{0x20}
	require.NoError(t, s.SaveDataContentAttributes(ctx, model.DataContentAttributes{ID: []byte{0x21}, Hash: hash, DataSize: 50}))
	require.NoError(t, s.SaveNestedDataHash(ctx, hash, parentID, 200))

	got, err = s.GetDataParent(ctx, []byte{0x21})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, parentID, got.ParentID)
	require.EqualValues(t, 200, got.DataOffset)

	none, err := s.GetDataParent(ctx, []byte{0xFF})
	require.NoError(t, err)
	require.Nil(t, none)
}
