package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitialize_DefaultsApplyWithNoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, Initialize())

	require.Equal(t, "data/core.db", GetString("db.core-path"))
	require.Equal(t, 50, GetInt("lifecycle.max-fork-depth"))
	require.Equal(t, 0.5, GetFloat64("breaker.error-rate"))
	require.Equal(t, 10*time.Second, GetDuration("breaker.reset-interval"))
}

func TestInitialize_EnvVarOverridesDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GWINDEX_LIFECYCLE_MAX_FORK_DEPTH", "7")
	require.NoError(t, Initialize())

	require.Equal(t, 7, GetInt("lifecycle.max-fork-depth"))
	require.Equal(t, SourceEnvVar, GetValueSource("lifecycle.max-fork-depth"))
}

func TestSet_OverridesForTests(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, Initialize())

	Set("pool.gql-readers", 4)
	require.Equal(t, 4, GetInt("pool.gql-readers"))
}
