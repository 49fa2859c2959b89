package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sm4rtLabel/ar-io-node/internal/errs"
)

func TestBreaker_TripsAfterErrorRateExceeded(t *testing.T) {
	cfg := DefaultConfig(time.Second)
	cfg.MinCalls = 2
	b := New(cfg)

	fail := func(ctx context.Context) (any, error) { return nil, errors.New("boom") }
	_, err := b.Do(context.Background(), fail)
	require.Error(t, err)
	_, err = b.Do(context.Background(), fail)
	require.Error(t, err)

	// breaker is now open; fn must not run.
	ran := false
	_, err = b.Do(context.Background(), func(ctx context.Context) (any, error) { ran = true; return nil, nil })
	require.ErrorIs(t, err, errs.ErrCircuitOpen)
	require.False(t, ran)
}

func TestBreaker_HalfOpenRecoversOnSuccess(t *testing.T) {
	cfg := DefaultConfig(time.Second)
	cfg.MinCalls = 1
	cfg.ResetInterval = 10 * time.Millisecond
	b := New(cfg)

	_, err := b.Do(context.Background(), func(ctx context.Context) (any, error) { return nil, errors.New("boom") })
	require.Error(t, err)

	time.Sleep(20 * time.Millisecond)

	v, err := b.Do(context.Background(), func(ctx context.Context) (any, error) { return "ok", nil })
	require.NoError(t, err)
	require.Equal(t, "ok", v)

	// closed again: the next call runs fn and returns its result (the
	// call window was cleared on recovery).
	ran := false
	_, err = b.Do(context.Background(), func(ctx context.Context) (any, error) { ran = true; return "still-up", nil })
	require.NoError(t, err)
	require.True(t, ran)
}
