package ratelimit

import (
	"math"
	"testing"
	"time"
)

func TestBucketBurstThenDeny(t *testing.T) {
	now := time.Now()
	b := newBucket(20, 100.0/60.0, now)

	for i := 0; i < 20; i++ {
		if !b.consume(1, now) {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}
	if b.consume(1, now) {
		t.Fatal("request beyond burst with no elapsed time should be denied")
	}
	if b.tokens < 0 {
		t.Fatalf("tokens went negative: %f", b.tokens)
	}
}

func TestBucketRefillsLinearly(t *testing.T) {
	start := time.Now()
	b := newBucket(10, 1.0, start) // 1 token per second

	for i := 0; i < 10; i++ {
		b.consume(1, start)
	}

	// 3 seconds later: 3 tokens refilled, one consumed leaves 2.
	if !b.consume(1, start.Add(3*time.Second)) {
		t.Fatal("expected refill to allow the request")
	}
	if got := math.Floor(b.tokens); got != 2 {
		t.Fatalf("expected 2 whole tokens after refill, got %f", got)
	}
}

func TestBucketRefillCapsAtCapacity(t *testing.T) {
	start := time.Now()
	b := newBucket(10, 1.0, start)
	for i := 0; i < 10; i++ {
		b.consume(1, start)
	}

	if !b.consume(1, start.Add(time.Hour)) {
		t.Fatal("expected request after long idle to be allowed")
	}
	if got := math.Floor(b.tokens); got != 9 {
		t.Fatalf("expected tokens capped at capacity-1 after consume, got %f", got)
	}
}

func TestBucketTimeUntil(t *testing.T) {
	now := time.Now()
	b := newBucket(1, 0.5, now)

	if got := b.timeUntil(1); got != 0 {
		t.Fatalf("full bucket should report zero wait, got %f", got)
	}
	b.consume(1, now)
	got := b.timeUntil(1)
	if got < 1.99 || got > 2.01 {
		t.Fatalf("expected ~2s wait for one token at 0.5/s, got %f", got)
	}
}
