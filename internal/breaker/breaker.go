// Package breaker implements the circuit breaker that wraps
// getDataAttributes/getDataParent with: a configurable per-call timeout, a
// 50%-error-rate-over-5s trip threshold, and a 10s reset into half-open.
// No example repo in the corpus imports a circuit-breaker library (closest
// precedent is retry/backoff conventions elsewhere in the pack) so this is
// a documented stdlib-only package (sync/time), per DESIGN.md.
package breaker

import (
	"context"
	"sync"
	"time"

	"github.com/sm4rtLabel/ar-io-node/internal/errs"
)

type state int

const (
	closed state = iota
	open
	halfOpen
)

// Config controls the trip/reset thresholds.
type Config struct {
	Timeout       time.Duration
	Window        time.Duration // rolling window for error-rate calculation
	ErrorRate     float64       // fraction of calls in Window that must fail to trip
	MinCalls      int           // calls required in Window before ErrorRate is evaluated
	ResetInterval time.Duration // time open before trying a half-open probe
}

// DefaultConfig: 5s rolling window, 50% error rate, 10s reset.
func DefaultConfig(timeout time.Duration) Config {
	return Config{
		Timeout:       timeout,
		Window:        5 * time.Second,
		ErrorRate:     0.5,
		MinCalls:      1,
		ResetInterval: 10 * time.Second,
	}
}

type call struct {
	at     time.Time
	failed bool
}

// Breaker wraps a single guarded operation's call sites. Callers in the
// open state get errs.ErrCircuitOpen immediately rather than attempting
// the call.
type Breaker struct {
	cfg Config

	mu        sync.Mutex
	st        state
	calls     []call
	openSince time.Time
}

func New(cfg Config) *Breaker {
	return &Breaker{cfg: cfg, st: closed}
}

// Do runs fn under the breaker's timeout, recording its outcome and
// tripping/resetting state as needed. If the breaker is open, fn is never
// called and errs.ErrCircuitOpen is returned — callers MUST treat that as
// "unknown", not "absent" or "error".
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	if !b.allow() {
		return nil, errs.ErrCircuitOpen
	}

	callCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	v, err := fn(callCtx)
	b.record(err == nil)
	return v, err
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.st {
	case open:
		if time.Since(b.openSince) >= b.cfg.ResetInterval {
			b.st = halfOpen
			return true
		}
		return false
	default:
		return true
	}
}

func (b *Breaker) record(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.calls = append(b.calls, call{at: now, failed: !ok})
	b.prune(now)

	if b.st == halfOpen {
		if ok {
			b.st = closed
			b.calls = nil
		} else {
			b.trip(now)
		}
		return
	}

	if len(b.calls) >= b.cfg.MinCalls {
		var failures int
		for _, c := range b.calls {
			if c.failed {
				failures++
			}
		}
		if float64(failures)/float64(len(b.calls)) >= b.cfg.ErrorRate {
			b.trip(now)
		}
	}
}

func (b *Breaker) trip(now time.Time) {
	b.st = open
	b.openSince = now
}

func (b *Breaker) prune(now time.Time) {
	cutoff := now.Add(-b.cfg.Window)
	i := 0
	for i < len(b.calls) && b.calls[i].at.Before(cutoff) {
		i++
	}
	b.calls = b.calls[i:]
}
