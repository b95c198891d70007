package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"clubstay-backend/internal/config"
	"clubstay-backend/internal/logger"
)

// tokenBucketScript refills and takes one token atomically.
// Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
  tokens = capacity
  last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
  local elapsed = math.max(0, now_ms - last_refill)
  local intervals = math.floor(elapsed / interval_ms)
  if intervals > 0 then
    tokens = math.min(capacity, tokens + (intervals * refill_tokens))
    last_refill = last_refill + (intervals * interval_ms)
  end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
  allowed = 1
  tokens = tokens - 1
else
  retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// Decision is the outcome of taking a token from a bucket.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// BucketStore takes one token from the bucket identified by key.
type BucketStore interface {
	Take(ctx context.Context, key string, now time.Time) (Decision, error)
}

type redisBucketStore struct {
	rdb redis.Scripter
	cfg config.RateLimitConfig
}

func NewRedisBucketStore(rdb redis.Scripter, cfg config.RateLimitConfig) BucketStore {
	return &redisBucketStore{rdb: rdb, cfg: cfg}
}

func (s *redisBucketStore) Take(ctx context.Context, key string, now time.Time) (Decision, error) {
	args := []interface{}{
		now.UnixMilli(),
		s.cfg.Capacity,
		s.cfg.RefillTokens,
		s.cfg.RefillInterval.Milliseconds(),
		int64(s.cfg.TTL / time.Second),
	}
	vals, err := tokenBucketScript.Run(ctx, s.rdb, []string{key}, args...).Result()
	if err != nil {
		return Decision{}, err
	}
	return parseBucketResult(vals)
}

func parseBucketResult(vals interface{}) (Decision, error) {
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		return Decision{}, fmt.Errorf("unexpected rate limit script result: %#v", vals)
	}
	return Decision{
		Allowed:    asInt64(arr[0]) == 1,
		Remaining:  asInt64(arr[1]),
		RetryAfter: time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, nil
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// RateLimiter applies a token bucket per client IP and route.
type RateLimiter struct {
	store    BucketStore
	capacity int
	prefix   string
	now      func() time.Time
}

func NewRateLimiter(store BucketStore, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{store: store, capacity: cfg.Capacity, prefix: cfg.Prefix, now: time.Now}
}

// Handler fails open: when the bucket store errors the request is served.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.key(r)
		decision, err := l.store.Take(r.Context(), key, l.now())
		if err != nil {
			logger.Warn("Rate limiter unavailable", "key", key, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.capacity))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))

		if !decision.Allowed {
			secs := int(math.Ceil(decision.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error":       "too_many_requests",
				"message":     "rate limit exceeded",
				"retry_after": secs,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) key(r *http.Request) string {
	route := r.URL.Path
	if current := mux.CurrentRoute(r); current != nil {
		if tmpl, err := current.GetPathTemplate(); err == nil {
			route = tmpl
		}
	}
	return strings.Join([]string{l.prefix, "ip", clientIP(r), "route", r.Method + " " + route}, ":")
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
