// Package ratelimit applies a fixed-window request limit per requester
// address on the gateway read endpoints. A Redis-backed window is used when
// configured so limits hold across replicas; otherwise an in-process window
// keeps single-node deployments honest.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"credshare/internal/platform/middleware"
	dErrors "credshare/pkg/domain-errors"
	httpErrors "credshare/pkg/http-errors"
)

// Limiter reports whether a key may proceed within the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter implements a fixed window with INCR + EXPIRE.
type RedisLimiter struct {
	client *goredis.Client
	window time.Duration
	max    int
}

func NewRedis(client *goredis.Client, window time.Duration, max int) *RedisLimiter {
	return &RedisLimiter{client: client, window: window, max: max}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))
	count, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	if count == 1 {
		// First hit in the window sets the expiry.
		if err := l.client.Expire(ctx, bucket, l.window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit expire: %w", err)
		}
	}
	return count <= int64(l.max), nil
}

// MemoryLimiter is the in-process fallback window.
type MemoryLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	epoch  int64
	window time.Duration
	max    int
}

func NewMemory(window time.Duration, max int) *MemoryLimiter {
	return &MemoryLimiter{
		counts: make(map[string]int),
		window: window,
		max:    max,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	epoch := time.Now().Unix() / int64(l.window.Seconds())
	l.mu.Lock()
	defer l.mu.Unlock()
	if epoch != l.epoch {
		l.counts = make(map[string]int)
		l.epoch = epoch
	}
	l.counts[key]++
	return l.counts[key] <= l.max, nil
}

// Middleware rejects requests over the limit with 429. The caller address is
// the limit key; unauthenticated requests share a bucket per remote address.
func Middleware(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := middleware.Caller(r.Context()).Hex()
			if key == "0x0000000000000000000000000000000000000000" {
				key = r.RemoteAddr
			}

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				// Fail open on limiter outage.
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				status, code := httpErrors.StatusFor(dErrors.New(dErrors.CodeRateLimited, "rate limit exceeded"))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"error":"` + code + `"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
