package ratelimit

import (
	"math"
	"time"
)

// bucket is a token bucket for one client key. Tokens are a real number:
// refill is continuous, proportional to elapsed time, capped at capacity.
// Not safe for concurrent use; the owning limiter serializes access.
type bucket struct {
	tokens     float64
	lastUpdate time.Time
	capacity   float64
	refillRate float64 // tokens per second
}

// newBucket starts with a full burst on first sight of a client.
func newBucket(capacity int, refillRate float64, now time.Time) *bucket {
	return &bucket{
		tokens:     float64(capacity),
		lastUpdate: now,
		capacity:   float64(capacity),
		refillRate: refillRate,
	}
}

// consume refills from elapsed time, then takes n tokens if available.
func (b *bucket) consume(n float64, now time.Time) bool {
	if elapsed := now.Sub(b.lastUpdate).Seconds(); elapsed > 0 {
		b.tokens = math.Min(b.capacity, b.tokens+elapsed*b.refillRate)
	}
	b.lastUpdate = now

	if b.tokens >= n {
		b.tokens -= n
		return true
	}
	return false
}

// timeUntil reports the seconds until n tokens will be available.
func (b *bucket) timeUntil(n float64) float64 {
	if b.tokens >= n {
		return 0
	}
	return (n - b.tokens) / b.refillRate
}
