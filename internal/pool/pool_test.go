package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sm4rtLabel/ar-io-node/internal/errs"
)

func noopWorker(slot int, role Role) Worker {
	return NewFuncWorker(nil, nil)
}

func TestSubmit_RunsJobAndReturnsResult(t *testing.T) {
	p := New(Config{Name: "t", Readers: 1, Writers: 1}, noopWorker)
	defer p.Shutdown()

	v, err := p.Submit(context.Background(), RoleRead, func(ctx context.Context, resource any) (any, error) {
		return 7, nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestSubmit_PropagatesError(t *testing.T) {
	p := New(Config{Name: "t", Readers: 1, Writers: 0}, noopWorker)
	defer p.Shutdown()

	sentinel := errors.New("boom")
	_, err := p.Submit(context.Background(), RoleRead, func(ctx context.Context, resource any) (any, error) {
		return nil, sentinel
	})
	require.ErrorIs(t, err, sentinel)
}

func TestSubmit_FIFOPerRole(t *testing.T) {
	p := New(Config{Name: "t", Readers: 1, Writers: 0}, noopWorker)
	defer p.Shutdown()

	var order []int
	results := make(chan int, 3)
	for i := 0; i < 3; i++ {
		i := i
		go func() {
			_, _ = p.Submit(context.Background(), RoleRead, func(ctx context.Context, resource any) (any, error) {
				results <- i
				return nil, nil
			})
		}()
		time.Sleep(5 * time.Millisecond) // force submission order
	}
	for i := 0; i < 3; i++ {
		order = append(order, <-results)
	}
	require.Equal(t, []int{0, 1, 2}, order)
}

func TestSubmit_QueueFullBackpressure(t *testing.T) {
	p := New(Config{Name: "t", Readers: 0, Writers: 0, QueueDepth: 1}, noopWorker)
	defer p.Shutdown()

	// No workers are draining the queue, so the first submit fills the
	// buffered channel and a second attempt must observe it full
	// immediately and be rejected instead of blocking.
	go func() {
		_, _ = p.Submit(context.Background(), RoleRead, func(ctx context.Context, resource any) (any, error) { return nil, nil })
	}()
	time.Sleep(10 * time.Millisecond)
	_, err := p.Submit(context.Background(), RoleRead, func(ctx context.Context, resource any) (any, error) { return nil, nil })
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrQueueFull)
}

func TestWorker_RespawnsAfterErrorBudgetExceeded(t *testing.T) {
	var closes atomic.Int64
	newWorker := func(slot int, role Role) Worker {
		return NewFuncWorker(nil, func() error {
			closes.Add(1)
			return nil
		})
	}
	p := New(Config{Name: "t", Readers: 1, Writers: 0}, newWorker)
	defer p.Shutdown()

	for i := 0; i <= MaxWorkerErrors+1; i++ {
		_, _ = p.Submit(context.Background(), RoleRead, func(ctx context.Context, resource any) (any, error) {
			return nil, errors.New("fail")
		})
	}
	// allow the respawn loop to close the exhausted worker
	require.Eventually(t, func() bool { return closes.Load() >= 1 }, time.Second, 10*time.Millisecond)

	v, err := p.Submit(context.Background(), RoleRead, func(ctx context.Context, resource any) (any, error) {
		return "alive", nil
	})
	require.NoError(t, err)
	require.Equal(t, "alive", v)
}
