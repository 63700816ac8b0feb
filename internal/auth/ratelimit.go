package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a per-principal token-bucket rate limiter, grounded on the
// pack's golang.org/x/time/rate wrapper: one bucket per key (IP, user ID,
// or "ip:endpoint-class"), created lazily and capped at limit/burst.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
	idle    time.Duration
	seen    map[string]time.Time
}

// NewLimiter builds a limiter allowing perMinute requests per key with the
// given burst capacity.
func NewLimiter(perMinute float64, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		seen:    make(map[string]time.Time),
		limit:   rate.Limit(perMinute / 60.0),
		burst:   burst,
		idle:    10 * time.Minute,
	}
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seen[key] = time.Now()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = b
	}
	l.evictLocked()
	return b
}

// evictLocked drops buckets untouched for longer than l.idle so the map
// does not grow unbounded with one-shot clients. Caller holds l.mu.
func (l *Limiter) evictLocked() {
	if len(l.buckets) < 10000 {
		return
	}
	cutoff := time.Now().Add(-l.idle)
	for key, seenAt := range l.seen {
		if seenAt.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.seen, key)
		}
	}
}

// Allow reports whether the request for key is within its bucket.
func (l *Limiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}
