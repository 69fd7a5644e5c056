// Package ratelimiter bounds how many chat messages a session may send per
// room and window.
package ratelimiter

import (
	"sync"
	"sync/atomic"
	"time"
)

type FixedWindowRateLimiter struct {
	counts      sync.Map // string -> *keyData
	limit       int64
	window      time.Duration
	now         func() time.Time
	cleanupTick *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

type keyData struct {
	count   int64        // atomic
	resetAt atomic.Value // stores time.Time
	mu      sync.Mutex   // only for reset (rare)
}

type Option func(*FixedWindowRateLimiter)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(rl *FixedWindowRateLimiter) { rl.now = now }
}

func NewFixedWindowRateLimiter(limit int, window time.Duration, opts ...Option) *FixedWindowRateLimiter {
	rl := &FixedWindowRateLimiter{
		limit:       int64(limit),
		window:      window,
		now:         time.Now,
		cleanupTick: time.NewTicker(window),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}
	go rl.startCleanup()
	return rl
}

// Allow reports whether one more message may be sent under key and, when it
// may not, how long until the window resets.
func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	now := rl.now()
	windowStart := now.Truncate(rl.window)
	nextReset := windowStart.Add(rl.window)

	val, _ := rl.counts.LoadOrStore(key, &keyData{})
	data := val.(*keyData)

	if data.resetAt.Load() == nil {
		data.mu.Lock()
		if data.resetAt.Load() == nil {
			atomic.StoreInt64(&data.count, 1)
			data.resetAt.Store(nextReset)
			data.mu.Unlock()
			return true, 0
		}
		data.mu.Unlock()
	}

	currentReset := data.resetAt.Load().(time.Time)
	if now.Before(currentReset) {
		return rl.take(data, now, currentReset)
	}

	data.mu.Lock()
	defer data.mu.Unlock()

	// Another caller may have reset the window while we waited.
	if currentReset := data.resetAt.Load().(time.Time); now.Before(currentReset) {
		return rl.take(data, now, currentReset)
	}

	atomic.StoreInt64(&data.count, 1)
	data.resetAt.Store(nextReset)
	return true, 0
}

func (rl *FixedWindowRateLimiter) take(data *keyData, now, resetAt time.Time) (bool, time.Duration) {
	newCount := atomic.AddInt64(&data.count, 1)
	if newCount-1 >= rl.limit {
		atomic.AddInt64(&data.count, -1)
		return false, resetAt.Sub(now)
	}
	return true, 0
}

func (rl *FixedWindowRateLimiter) startCleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.cleanup()
		case <-rl.done:
			return
		}
	}
}

func (rl *FixedWindowRateLimiter) cleanup() {
	now := rl.now()
	rl.counts.Range(func(key, value any) bool {
		data := value.(*keyData)
		if resetAt := data.resetAt.Load(); resetAt != nil {
			if now.After(resetAt.(time.Time)) {
				rl.counts.Delete(key)
			}
		}
		return true
	})
}

func (rl *FixedWindowRateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.done)
		rl.cleanupTick.Stop()
	})
}
