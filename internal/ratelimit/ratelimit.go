package ratelimit

import "context"

// Decision is the outcome of an admission check. Remaining is floor(tokens)
// after the check; Reset is the whole-second wait until one token refills.
type Decision struct {
	Allowed   bool
	Limit     int // sustained requests per minute
	Remaining int
	Reset     int
}

// Limiter admits or denies one request for a client key. The memory backend
// never returns an error; the Redis backend surfaces transport failures so
// the caller can fail open.
type Limiter interface {
	Check(ctx context.Context, key string) (Decision, error)
	Close() error
}
