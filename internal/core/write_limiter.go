package core

// write_limiter.go serializes writes to the roster file.
//
// Appends and full rewrites must never interleave: a level-up reads the file,
// changes one line and writes everything back, so a concurrent append in
// between would be lost. The limiter is a semaphore with a configurable
// number of slots (one for a file store). Writers that cannot get a slot
// within maxWait fail with ErrStoreBusy instead of queueing forever.
//
// WaitForDrain lets the HTTP server finish in-flight writes on shutdown.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStoreBusy is returned when the write slot is held longer than the
// configured wait. Clients should retry after a short delay.
var ErrStoreBusy = errors.New("roster store busy, please try again")

// DefaultWriteWait is how long a writer waits for a slot before giving up.
const DefaultWriteWait = 5 * time.Second

// WriteLimiter controls concurrent writes using a semaphore.
type WriteLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewWriteLimiter creates a limiter that allows at most slots simultaneous
// writers. Values <= 0 fall back to one slot and DefaultWriteWait.
func NewWriteLimiter(slots int, maxWait time.Duration) *WriteLimiter {
	if slots <= 0 {
		slots = 1
	}
	if maxWait <= 0 {
		maxWait = DefaultWriteWait
	}

	return &WriteLimiter{
		semaphore: make(chan struct{}, slots),
		maxWait:   maxWait,
	}
}

// Acquire waits for a write slot.
// Returns nil on success, ErrStoreBusy if the wait expires, or the context
// error if ctx is done first. The caller must Release after a nil return.
func (l *WriteLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrStoreBusy
	}
}

// TryAcquire attempts to acquire a slot without blocking.
func (l *WriteLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release releases a previously acquired slot.
// Must be called exactly once for each successful Acquire/TryAcquire.
func (l *WriteLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of writers currently holding a slot.
func (l *WriteLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no writer holds a slot or ctx is done.
func (l *WriteLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
