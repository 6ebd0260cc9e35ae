package api

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// defaultHandleTimeout bounds a single round trip on a pooled handle.
const defaultHandleTimeout = 120 * time.Second

// newHandle fabricates a reusable client handle. Handles are created lazily
// by the pool and live for the pool's lifetime.
func newHandle() *http.Client {
	return &http.Client{
		Timeout: defaultHandleTimeout,
	}
}

// clientPool is a bounded, elastic pool of reusable *http.Client handles.
//
// Handles are allocated lazily up to max and never destroyed. A handle is
// either idle (on the idle stack) or on loan to exactly one in-flight
// request; the pool's loan discipline is what makes reuse safe, the handle
// itself is never locked.
//
// Shared state is the idle stack (guarded by mu) and the allocation counter
// (advanced with compare-and-swap so concurrent acquirers cannot allocate
// past max).
type clientPool struct {
	mu   sync.Mutex
	idle []*http.Client

	// wake is closed and replaced under mu on every release. Waiters
	// capture the current channel while holding mu, so a release that
	// happens after their idle-queue check is guaranteed to wake them.
	wake chan struct{}

	allocated atomic.Int64
	max       int64
}

func newClientPool(maxConnections int) *clientPool {
	return &clientPool{
		wake: make(chan struct{}),
		max:  int64(maxConnections),
	}
}

// acquire returns a handle, blocking only when the pool is both empty and at
// its allocation cap. Waiting is cut short by ctx cancellation, in which
// case nothing has been taken from the pool.
func (p *clientPool) acquire(ctx context.Context) (*http.Client, error) {
	for {
		p.mu.Lock()
		if n := len(p.idle); n > 0 {
			handle := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.mu.Unlock()
			return handle, nil
		}
		wake := p.wake
		p.mu.Unlock()

		// The queue is empty: try to allocate a fresh handle. A failed
		// swap means another acquirer won the slot, so re-read rather
		// than blocking while capacity may remain.
		for {
			allocated := p.allocated.Load()
			if allocated >= p.max {
				break
			}
			if p.allocated.CompareAndSwap(allocated, allocated+1) {
				return newHandle(), nil
			}
		}

		select {
		case <-wake:
			// A handle was released; re-check the queue. The wake is a
			// hint, not a reservation: another waiter may have taken it.
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// release returns a handle to the idle queue and wakes every waiter. Waiters
// re-check the queue themselves, so waking more than one is harmless.
//
// Callers must release exactly the handles they acquired, exactly once, on
// every exit path.
func (p *clientPool) release(handle *http.Client) {
	p.mu.Lock()
	p.idle = append(p.idle, handle)
	close(p.wake)
	p.wake = make(chan struct{})
	p.mu.Unlock()
}
