// Package auth holds authentication building blocks that are not tied
// to HTTP: the sliding-window limiter used to throttle magic-link
// issuance.  Session and magic-link persistence live in the repository
// package; the HTTP glue lives in handler and middleware.
package auth

import (
	"sync"
	"time"
)

// Limiter is an in-process sliding-window counter keyed by
// (scope, identifier).  It deliberately lives in memory: losing the
// counters on restart is acceptable because throttling here is an abuse
// deterrent, not a security guarantee.  Construct one at process start
// and inject it into the handlers that need it.
type Limiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time // injectable for tests
}

// NewLimiter returns a Limiter allowing max events per rolling window.
func NewLimiter(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:    max,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records an event for (scope, identifier) and reports whether it
// falls within the limit.  Entries older than the window are pruned on
// every call, so memory stays bounded by active keys.
func (l *Limiter) Allow(scope, identifier string) bool {
	key := scope + ":" + identifier
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}
