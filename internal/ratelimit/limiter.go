// Package ratelimit guards repeated submissions with a per-key sliding window and
// throttles raw request rates per client.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultSweepEvery is how often idle entries are purged.
	DefaultSweepEvery = time.Minute
	// DefaultRetention is how long an entry may stay idle before the sweep drops it.
	DefaultRetention = 5 * time.Minute
)

// Limiter counts attempts per key inside a window that opens on the first attempt.
// One Limiter is owned by the hosting process; Start runs the idle sweep and Stop ends it.
type Limiter struct {
	mu         sync.Mutex
	entries    map[string]*entry
	now        func() time.Time
	sweepEvery time.Duration
	retention  time.Duration

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
}

type entry struct {
	count       int
	windowStart time.Time
	lastAttempt time.Time
}

type Option func(*Limiter)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithSweepInterval sets how often idle entries are purged.
func WithSweepInterval(d time.Duration) Option {
	return func(l *Limiter) { l.sweepEvery = d }
}

// WithRetention sets how long an entry may stay idle before the sweep drops it.
func WithRetention(d time.Duration) Option {
	return func(l *Limiter) { l.retention = d }
}

func New(opts ...Option) *Limiter {
	l := &Limiter{
		entries:    make(map[string]*entry),
		now:        time.Now,
		sweepEvery: DefaultSweepEvery,
		retention:  DefaultRetention,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check records an attempt for key and reports whether it is allowed.
func (l *Limiter) Check(key string, maxAttempts int, window time.Duration) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	ent, ok := l.entries[key]
	if !ok || now.Sub(ent.windowStart) > window {
		l.entries[key] = &entry{count: 1, windowStart: now, lastAttempt: now}
		return true
	}
	if ent.count >= maxAttempts {
		return false
	}
	ent.count++
	ent.lastAttempt = now
	return true
}

// RemainingAttempts reports how many attempts are left in the current window.
func (l *Limiter) RemainingAttempts(key string, maxAttempts int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	ent, ok := l.entries[key]
	if !ok {
		return maxAttempts
	}
	return max(0, maxAttempts-ent.count)
}

// TimeUntilReset reports how long until the window of key closes.
func (l *Limiter) TimeUntilReset(key string, window time.Duration) time.Duration {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	ent, ok := l.entries[key]
	if !ok {
		return 0
	}
	return max(0, window-now.Sub(ent.windowStart))
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.entries, key)
	l.mu.Unlock()
}

// ClearAll forgets every key.
func (l *Limiter) ClearAll() {
	l.mu.Lock()
	l.entries = make(map[string]*entry)
	l.mu.Unlock()
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// SweepInterval and Retention report the sweep settings in effect.
func (l *Limiter) SweepInterval() time.Duration { return l.sweepEvery }
func (l *Limiter) Retention() time.Duration     { return l.retention }

// Sweep drops entries whose last attempt is older than the retention age and returns
// how many were removed. The window state is irrelevant.
func (l *Limiter) Sweep() int {
	cutoff := l.now().Add(-l.retention)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, ent := range l.entries {
		if ent.lastAttempt.Before(cutoff) {
			delete(l.entries, k)
			removed++
		}
	}
	return removed
}

// Start launches the periodic sweep. It stops when ctx is cancelled or Stop is called.
// Calling Start on a running limiter is a no-op.
func (l *Limiter) Start(ctx context.Context) {
	if l.sweepEvery <= 0 {
		return
	}
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()
	if l.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done

	t := time.NewTicker(l.sweepEvery)
	go func() {
		defer close(done)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Sweep()
			}
		}
	}()
}

// Stop ends the sweep and waits for its goroutine to exit.
func (l *Limiter) Stop() {
	l.lifecycle.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.lifecycle.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
