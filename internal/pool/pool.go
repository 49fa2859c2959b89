// Package pool implements the six named worker pools the indexing core
// schedules store I/O through. Each pool has a configured reader and
// writer count; each worker is a goroutine with its own store connection,
// pulling jobs off a per-pool, per-role FIFO queue. A worker that exceeds
// its error budget exits and is respawned: a goroutine/channel/atomic-
// counter dispatch loop generalized from one socket listener to per-role
// job queues.
package pool

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sm4rtLabel/ar-io-node/internal/errs"
)

// Role distinguishes a pool's reader workers from its (usually count-1)
// writer workers; writers within a pool serialize by virtue of being
// count-1.
type Role int

const (
	RoleRead Role = iota
	RoleWrite
)

// MaxWorkerErrors is the per-worker running error budget; a worker that
// exceeds it exits and is respawned.
const MaxWorkerErrors = 100

// Job is a unit of work dispatched to a pool role. Fn runs on the worker
// goroutine that owns the store connection, receiving that worker's
// resource (e.g. a *core.Store) as its second argument so each job runs
// against the connection its assigned worker owns, not a shared one; its
// result is delivered to Reply exactly once.
type Job struct {
	// ID is a random per-submission identifier. Neither the scheduler nor
	// any log line reads it; indexcore's submit logs a separate trace id
	// for the gql and debug pools.
	ID    string
	Fn    func(ctx context.Context, resource any) (any, error)
	Reply chan Result
	ctx   context.Context
}

// Result is what a completed (or failed) Job reports back to its
// submitter.
type Result struct {
	Value any
	Err   error
}

// Config describes one named pool's shape.
type Config struct {
	Name       string
	Readers    int
	Writers    int
	QueueDepth int // 0 means unbounded (default bounded depth is set by config defaults)
}

// Pool is a named collection of reader and writer workers sharing two FIFO
// job queues (one per role). NewWorker constructs the per-worker resource
// (e.g. a store connection) the first time a worker slot starts, and again
// every time that slot's worker is respawned after crashing.
type Pool struct {
	cfg       Config
	newWorker func(slot int, role Role) Worker

	readQueue  chan Job
	writeQueue chan Job

	group    *errgroup.Group
	shutdown chan struct{}
	once     sync.Once
}

// Worker is the per-goroutine handle a pool drives jobs through. Run
// receives jobs off its queue until ctx is cancelled or it decides to exit
// (error budget exceeded); Close releases the worker's resources (e.g.
// closes its store connection) once Run returns.
type Worker interface {
	Run(ctx context.Context, jobs <-chan Job)
	Close() error
}

// New constructs a pool and starts its reader and writer worker
// goroutines. newWorker is called once per worker slot, and again each
// time that slot is respawned.
func New(cfg Config, newWorker func(slot int, role Role) Worker) *Pool {
	depth := cfg.QueueDepth
	var group errgroup.Group
	p := &Pool{
		cfg:        cfg,
		newWorker:  newWorker,
		readQueue:  make(chan Job, depth),
		writeQueue: make(chan Job, depth),
		group:      &group,
		shutdown:   make(chan struct{}),
	}
	for i := 0; i < cfg.Readers; i++ {
		p.spawn(i, RoleRead, p.readQueue)
	}
	for i := 0; i < cfg.Writers; i++ {
		p.spawn(i, RoleWrite, p.writeQueue)
	}
	return p
}

// spawn runs one worker slot's supervisor loop: build a Worker, run it
// until it exits (ctx cancellation or the worker's own decision to quit
// after exceeding its error budget), close it, and — unless the pool is
// shutting down — build a fresh one and go again (respawn).
func (p *Pool) spawn(slot int, role Role, queue chan Job) {
	p.group.Go(func() error {
		for {
			w := p.newWorker(slot, role)
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				w.Run(ctx, queue)
				close(done)
			}()

			select {
			case <-p.shutdown:
				cancel()
				<-done
				w.Close()
				return nil
			case <-done:
				cancel()
				w.Close()
				// worker exited on its own (error budget exceeded); respawn.
			}
		}
	})
}

// Submit enqueues fn on the pool's role-specific FIFO queue and blocks
// until a worker runs it (or ctx is cancelled, or the pool is shut down).
// QueueDepth > 0 makes this return errs.ErrQueueFull under backpressure
// instead of blocking indefinitely.
func (p *Pool) Submit(ctx context.Context, role Role, fn func(ctx context.Context, resource any) (any, error)) (any, error) {
	queue := p.readQueue
	if role == RoleWrite {
		queue = p.writeQueue
	}

	job := Job{ID: uuid.NewString(), Fn: fn, Reply: make(chan Result, 1), ctx: ctx}
	select {
	case queue <- job:
	case <-p.shutdown:
		return nil, errs.ErrWorkerDied
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		if p.cfg.QueueDepth == 0 {
			select {
			case queue <- job:
			case <-p.shutdown:
				return nil, errs.ErrWorkerDied
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		} else {
			return nil, errs.ErrQueueFull
		}
	}

	select {
	case r := <-job.Reply:
		return r.Value, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.shutdown:
		return nil, errs.ErrWorkerDied
	}
}

// Shutdown signals every worker to stop after its current job and waits
// for all worker goroutines to exit.
func (p *Pool) Shutdown() {
	p.once.Do(func() { close(p.shutdown) })
	p.group.Wait()
}

// errorBudget tracks one worker's running error count across jobs; it
// exceeding MaxWorkerErrors is the signal for the worker to exit and be
// respawned.
type errorBudget struct {
	count atomic.Int64
}

func (b *errorBudget) recordError() (exceeded bool) {
	return b.count.Add(1) > MaxWorkerErrors
}
