package api

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolAllocatesLazily(t *testing.T) {
	pool := newClientPool(4)

	assert.Empty(t, pool.idle)
	assert.Zero(t, pool.allocated.Load())

	handle, err := pool.acquire(context.Background())
	require.NoError(t, err)
	require.NotNil(t, handle)
	assert.EqualValues(t, 1, pool.allocated.Load())
}

func TestPoolReusesIdleHandles(t *testing.T) {
	pool := newClientPool(4)
	ctx := context.Background()

	first, err := pool.acquire(ctx)
	require.NoError(t, err)
	pool.release(first)

	second, err := pool.acquire(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, pool.allocated.Load(), "reuse must not allocate")
}

// The third acquire against a pool of two must block until one of the first
// two handles is released, then immediately succeed. Sequencing is driven by
// explicit channels rather than timing.
func TestPoolThirdAcquireBlocksUntilRelease(t *testing.T) {
	pool := newClientPool(2)
	ctx := context.Background()

	first, err := pool.acquire(ctx)
	require.NoError(t, err)
	second, err := pool.acquire(ctx)
	require.NoError(t, err)

	acquired := make(chan *http.Client)
	go func() {
		handle, err := pool.acquire(ctx)
		assert.NoError(t, err)
		acquired <- handle
	}()

	select {
	case <-acquired:
		t.Fatal("third acquire succeeded while the pool was saturated")
	case <-time.After(50 * time.Millisecond):
	}

	pool.release(first)

	select {
	case handle := <-acquired:
		assert.Same(t, first, handle)
	case <-time.After(2 * time.Second):
		t.Fatal("third acquire did not unblock after release")
	}

	pool.release(second)
}

// With N concurrent acquirers against a pool capped at M < N, at most M
// handles may be outstanding at any instant and all N must complete.
func TestPoolBoundsConcurrentAcquires(t *testing.T) {
	const (
		maxConnections = 4
		workers        = 32
	)

	pool := newClientPool(maxConnections)
	ctx := context.Background()

	var (
		inFlight atomic.Int64
		peak     atomic.Int64
		wg       sync.WaitGroup
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			handle, err := pool.acquire(ctx)
			if !assert.NoError(t, err) {
				return
			}
			defer pool.release(handle)

			current := inFlight.Add(1)
			for {
				observed := peak.Load()
				if current <= observed || peak.CompareAndSwap(observed, current) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(maxConnections))
	assert.LessOrEqual(t, pool.allocated.Load(), int64(maxConnections))
	assert.Len(t, pool.idle, int(pool.allocated.Load()), "every handle returned to the queue")
}

func TestPoolAcquireHonorsContext(t *testing.T) {
	pool := newClientPool(1)

	handle, err := pool.acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		_, err := pool.acquire(ctx)
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("acquire did not observe cancellation")
	}

	// The cancelled waiter took nothing: the handle is still usable.
	pool.release(handle)
	again, err := pool.acquire(context.Background())
	require.NoError(t, err)
	assert.Same(t, handle, again)
}

// A release must wake waiters even when several are queued; each waiter
// re-checks the idle queue, so every released handle is eventually claimed.
func TestPoolWakesAllWaiters(t *testing.T) {
	const waiters = 8

	pool := newClientPool(2)
	ctx := context.Background()

	first, err := pool.acquire(ctx)
	require.NoError(t, err)
	second, err := pool.acquire(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handle, err := pool.acquire(ctx)
			if assert.NoError(t, err) {
				pool.release(handle)
			}
		}()
	}

	pool.release(first)
	pool.release(second)

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("waiters starved after release")
	}
}
