package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(ctx, filepath.Join(dir, "core.db"), "", DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, ctx
}
