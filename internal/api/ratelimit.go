package api

import (
	"context"
	"sync"
	"time"
)

// SlidingWindowLimiter admits at most max grants in any trailing window.
// Safe for concurrent use; the grant timestamp queue is the only shared
// mutable state.
type SlidingWindowLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	grants []time.Time
}

// NewSlidingWindowLimiter creates a limiter admitting max grants per window.
func NewSlidingWindowLimiter(max int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		max:    max,
		window: window,
	}
}

// Wait blocks until a grant is available or ctx is done. On success the
// grant is recorded before returning.
func (l *SlidingWindowLimiter) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()
		l.prune(now)

		if len(l.grants) < l.max {
			l.grants = append(l.grants, now)
			l.mu.Unlock()
			return nil
		}

		// Window is full: sleep until the oldest grant expires.
		wait := l.grants[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// prune drops grants older than the window. Caller holds mu.
func (l *SlidingWindowLimiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.grants) && !l.grants[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.grants = append(l.grants[:0], l.grants[i:]...)
	}
}
