package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// MemoryLimiter keeps one token bucket per client key behind a single mutex.
// Stale buckets are swept inline: at most once per cleanup interval, during a
// Check, every bucket untouched for the full interval is evicted.
type MemoryLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*bucket
	lastCleanup time.Time

	rpm        int
	burst      int
	refillRate float64
	cleanup    time.Duration
}

func NewMemoryLimiter(rpm, burst int, cleanup time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		buckets:     make(map[string]*bucket),
		lastCleanup: time.Now(),
		rpm:         rpm,
		burst:       burst,
		refillRate:  float64(rpm) / 60.0,
		cleanup:     cleanup,
	}
}

func (m *MemoryLimiter) Check(_ context.Context, key string) (Decision, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.maybeCleanup(now)

	b := m.buckets[key]
	if b == nil {
		b = newBucket(m.burst, m.refillRate, now)
		m.buckets[key] = b
	}

	allowed := b.consume(1, now)
	return Decision{
		Allowed:   allowed,
		Limit:     m.rpm,
		Remaining: int(math.Floor(b.tokens)),
		Reset:     int(math.Ceil(b.timeUntil(1))),
	}, nil
}

func (m *MemoryLimiter) maybeCleanup(now time.Time) {
	if now.Sub(m.lastCleanup) < m.cleanup {
		return
	}
	cutoff := now.Add(-m.cleanup)
	for k, b := range m.buckets {
		if b.lastUpdate.Before(cutoff) {
			delete(m.buckets, k)
		}
	}
	m.lastCleanup = now
}

// Size reports the number of live buckets.
func (m *MemoryLimiter) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

func (m *MemoryLimiter) Close() error { return nil }
