package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript implements the same continuous-refill bucket as the
// memory backend, atomically per key. Returns {allowed, remaining, reset}.
const tokenBucketScript = `
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local burst = tonumber(ARGV[3])
local ttl_ms = tonumber(ARGV[4])

local data = redis.call("HMGET", key, "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])

if tokens == nil then
  tokens = burst
  ts = now_ms
else
  local delta = math.max(0, now_ms - ts)
  tokens = math.min(burst, tokens + (delta / 1000.0) * rate)
  ts = now_ms
end

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

local reset = 0
if tokens < 1 then
  reset = math.ceil(((1 - tokens) / rate))
end

redis.call("HMSET", key, "tokens", tokens, "ts", ts)
redis.call("PEXPIRE", key, ttl_ms)
return {allowed, math.floor(tokens), reset}
`

// RedisLimiter shares bucket state across gateway replicas. Check returns an
// error on transport failure; the rate-limit stage fails open in that case.
type RedisLimiter struct {
	rdb    *redis.Client
	script *redis.Script

	rpm        int
	burst      int
	refillRate float64
	ttl        time.Duration
}

func NewRedisLimiter(rdb *redis.Client, rpm, burst int, ttl time.Duration) *RedisLimiter {
	return &RedisLimiter{
		rdb:        rdb,
		script:     redis.NewScript(tokenBucketScript),
		rpm:        rpm,
		burst:      burst,
		refillRate: float64(rpm) / 60.0,
		ttl:        ttl,
	}
}

func (r *RedisLimiter) Check(ctx context.Context, key string) (Decision, error) {
	now := time.Now().UnixMilli()
	res, err := r.script.Run(ctx, r.rdb,
		[]string{"rl:" + key},
		now, r.refillRate, r.burst, r.ttl.Milliseconds(),
	).Result()
	if err != nil {
		return Decision{}, err
	}
	arr, ok := res.([]any)
	if !ok || len(arr) != 3 {
		return Decision{}, redis.Nil
	}
	return Decision{
		Allowed:   toInt(arr[0]) == 1,
		Limit:     r.rpm,
		Remaining: int(toInt(arr[1])),
		Reset:     int(toInt(arr[2])),
	}, nil
}

func (r *RedisLimiter) Close() error { return r.rdb.Close() }

func toInt(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}
