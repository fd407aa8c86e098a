// Package ratelimit provides sliding-window admission control for comment
// submissions, keyed by author id.
package ratelimit

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Result reports the outcome of an admission attempt. When Allowed is false,
// RetryAfter is the time until the oldest submission leaves the window.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits or rejects submissions per author. Implementations must make
// the check-and-append atomic: two concurrent submissions from the same author
// must never both claim the last remaining slot. The backing store is behind
// this interface so a shared external counter can replace the in-process one.
type Limiter interface {
	Allow(authorID string) Result
}

// MemoryLimiter is an in-process Limiter holding per-author submission
// timestamps. Idle author histories are evicted by the cache janitor once the
// window has fully elapsed. Correctness is scoped to a single process.
type MemoryLimiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	entries *gocache.Cache

	now func() time.Time // overridable in tests
}

// NewMemoryLimiter creates a limiter admitting max submissions per window
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:     max,
		window:  window,
		entries: gocache.New(window, 2*window),
		now:     time.Now,
	}
}

// Allow checks whether the author has capacity in the current window and,
// if so, records the submission. The check and the append happen under one
// lock so concurrent submissions cannot both observe spare capacity.
func (l *MemoryLimiter) Allow(authorID string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	var history []time.Time
	if v, ok := l.entries.Get(authorID); ok {
		history = v.([]time.Time)
	}

	// Discard entries that have slid out of the window
	valid := history[:0]
	for _, t := range history {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= l.max {
		// Oldest surviving entry defines when a slot frees up
		retryAfter := valid[0].Add(l.window).Sub(now)
		l.entries.Set(authorID, valid, gocache.DefaultExpiration)
		return Result{Allowed: false, RetryAfter: retryAfter}
	}

	valid = append(valid, now)
	l.entries.Set(authorID, valid, gocache.DefaultExpiration)

	return Result{Allowed: true, Remaining: l.max - len(valid)}
}
