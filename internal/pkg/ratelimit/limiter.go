// internal/pkg/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter bounds per-client request rate within a fixed window. The key is
// typically a client network address.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type windowCounter struct {
	count   int64
	resetAt time.Time
}

// MemoryLimiter is a single-process fixed-window counter. It is the right
// choice for a single instance only; run the Redis limiter when scaling
// out horizontally.
type MemoryLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int64
	entries map[string]*windowCounter
	now     func() time.Time
}

func NewMemoryLimiter(limit int64, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		window:  window,
		limit:   limit,
		entries: make(map[string]*windowCounter),
		now:     time.Now,
	}
}

// Allow increments the counter for key and reports whether the request
// fits inside the current window. Counters reset when the window lapses.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[key]
	if !ok || now.After(entry.resetAt) {
		l.entries[key] = &windowCounter{count: 1, resetAt: now.Add(l.window)}
		return l.limit >= 1, nil
	}

	entry.count++
	return entry.count <= l.limit, nil
}

// Prune drops expired counters. Callers may run it periodically; the
// limiter stays correct without it, the map just grows with idle keys.
func (l *MemoryLimiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, entry := range l.entries {
		if now.After(entry.resetAt) {
			delete(l.entries, key)
		}
	}
}
