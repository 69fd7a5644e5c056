package ratelimiter_test

import (
	"sync"
	"testing"
	"time"

	"github.com/hilthontt/plugdj/internal/infrastructure/ratelimiter"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestFixedWindow_LimitsWithinWindow(t *testing.T) {
	req := require.New(t)
	c := &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := ratelimiter.NewFixedWindowRateLimiter(2, 10*time.Second, ratelimiter.WithClock(c.Now))
	defer rl.Close()

	ok, _ := rl.Allow("room1")
	req.True(ok)
	ok, _ = rl.Allow("room1")
	req.True(ok)

	c.Advance(4 * time.Second)
	ok, wait := rl.Allow("room1")
	req.False(ok)
	req.Equal(6*time.Second, wait)

	// Keys are counted separately
	ok, _ = rl.Allow("room2")
	req.True(ok)
}

func TestFixedWindow_ResetsAfterWindow(t *testing.T) {
	c := &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := ratelimiter.NewFixedWindowRateLimiter(1, time.Second, ratelimiter.WithClock(c.Now))
	defer rl.Close()

	ok, _ := rl.Allow("room1")
	require.True(t, ok)
	ok, _ = rl.Allow("room1")
	require.False(t, ok)

	c.Advance(time.Second)
	ok, _ = rl.Allow("room1")
	require.True(t, ok)
}

func TestFixedWindow_ConcurrentCallersNeverExceedLimit(t *testing.T) {
	c := &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := ratelimiter.NewFixedWindowRateLimiter(5, time.Minute, ratelimiter.WithClock(c.Now))
	defer rl.Close()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := rl.Allow("room1"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 5, allowed)
}

func TestFixedWindow_CloseIsIdempotent(t *testing.T) {
	rl := ratelimiter.NewFixedWindowRateLimiter(1, time.Second)
	rl.Close()
	rl.Close()
}
