// Package errs collects the sentinel errors that give the indexing core's
// error taxonomy a stable, errors.Is-checkable identity.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrCursorInvalid means a caller-supplied pagination cursor failed to
	// decode. The request should be rejected outright.
	ErrCursorInvalid = errors.New("cursor-invalid")

	// ErrStoreTransient means the store or its pool was briefly unavailable.
	// A locked store is retried by the connection's busy timeout
	// (store.BusyTimeoutMS) and then fails with the driver's own error, not
	// with this sentinel; within this module it is returned only wrapped in
	// ErrQueueFull.
	ErrStoreTransient = errors.New("store-transient")

	// ErrWorkerDied means the pool was shut down before the job could be
	// queued or before its reply arrived.
	ErrWorkerDied = errors.New("worker-died")

	// ErrWorkerFatal means a worker itself exceeded MaxWorkerErrors and is
	// exiting; the pool will respawn a replacement.
	ErrWorkerFatal = errors.New("worker-fatal")

	// ErrCircuitOpen means a circuit-breaker-wrapped read was short
	// circuited. Callers MUST treat this as "unknown", not "absent" or
	// "error" — breaker callers return
	// a zero value alongside this error only for internal plumbing; the
	// public ContiguousDataIndex methods swallow it into (nil, nil).
	ErrCircuitOpen = errors.New("circuit-open")

	// ErrNotFound is a normal, expected result for point lookups; it is
	// never logged as a failure.
	ErrNotFound = errors.New("not-found")

	// ErrQueueFull means a pool's per-role job queue was at its configured
	// depth cap when a submission arrived. It wraps ErrStoreTransient.
	ErrQueueFull = fmt.Errorf("%w: queue full", ErrStoreTransient)

	// ErrUnsupported means the caller asked for a capability the store
	// cannot serve. No code path in this module returns it at present.
	ErrUnsupported = errors.New("unsupported")
)
