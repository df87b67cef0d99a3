package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter decides whether one more attempt for key fits the current window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// SlidingWindowLimiter keeps per-key attempt timestamps in process memory. It
// suits the long-running API server; Lambda instances should use StoreRateLimiter.
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string][]time.Time
	limit      int
	windowSize time.Duration
	now        func() time.Time
}

// NewSlidingWindowLimiter creates a limiter admitting limit attempts per windowSize.
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		windows:    make(map[string][]time.Time),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
	}
}

// Allow checks if a request is allowed
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.windowSize)

	recent := l.windows[key][:0]
	for _, at := range l.windows[key] {
		if at.After(windowStart) {
			recent = append(recent, at)
		}
	}

	if len(recent) >= l.limit {
		l.windows[key] = recent
		return false, nil
	}
	l.windows[key] = append(recent, now)
	return true, nil
}

// Reset resets the rate limit for a key
func (l *SlidingWindowLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, key)
	return nil
}

// Prune drops keys with no attempts inside the window. The server calls it
// periodically so the map does not grow with every client address ever seen.
func (l *SlidingWindowLimiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := l.now().Add(-l.windowSize)
	for key, attempts := range l.windows {
		if len(attempts) == 0 || !attempts[len(attempts)-1].After(windowStart) {
			delete(l.windows, key)
		}
	}
}

// RunPruner calls Prune every interval until ctx is done.
func (l *SlidingWindowLimiter) RunPruner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune()
		}
	}
}
