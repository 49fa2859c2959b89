package moderation

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "moderation.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, ctx
}

// S6: blockData({id:"AAA", source:"manual"}); isIdBlocked("AAA") == true;
// isIdBlocked("") and isIdBlocked(nil) return false.
func TestBlockData_IdBlocklist(t *testing.T) {
	s, ctx := setupTestStore(t)

	id := []byte("AAA")
	require.NoError(t, s.BlockData(ctx, BlockRequest{ID: id, Source: "manual"}))

	blocked, err := s.IsIdBlocked(ctx, id)
	require.NoError(t, err)
	require.True(t, blocked)

	blocked, err = s.IsIdBlocked(ctx, []byte(""))
	require.NoError(t, err)
	require.False(t, blocked)

	blocked, err = s.IsIdBlocked(ctx, nil)
	require.NoError(t, err)
	require.False(t, blocked)
}

func TestBlockData_HashBlocklist(t *testing.T) {
	s, ctx := setupTestStore(t)

	hash := []byte{0xDE, 0xAD}
	require.NoError(t, s.BlockData(ctx, BlockRequest{Hash: hash, Notes: "phishing"}))

	blocked, err := s.IsHashBlocked(ctx, hash)
	require.NoError(t, err)
	require.True(t, blocked)

	blocked, err = s.IsHashBlocked(ctx, []byte{0xBE, 0xEF})
	require.NoError(t, err)
	require.False(t, blocked)
}
