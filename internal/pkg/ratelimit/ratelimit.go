package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter answers whether a request identified by key is within its
// rolling-window budget. Implementations must treat each call as one hit.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter enforces a fixed-window limit backed by Redis, shared across
// instances. When Redis is unreachable it consults the optional fallback
// limiter; with no fallback it fails open.
type RedisLimiter struct {
	rdb      *redis.Client
	prefix   string
	limit    int
	window   time.Duration
	fallback Limiter
}

func NewRedis(rdb *redis.Client, prefix string, limit int, window time.Duration, fallback Limiter) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window, fallback: fallback}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowStart := time.Now().UnixMilli() / l.window.Milliseconds()
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, windowStart)

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		if l.fallback != nil {
			return l.fallback.Allow(ctx, key)
		}
		return true, err
	}
	if count == 1 {
		l.rdb.PExpire(ctx, redisKey, l.window+time.Second)
	}
	return count <= int64(l.limit), nil
}

// MemoryLimiter enforces a sliding-window limit with in-process state.
// Non-durable: counts reset on restart and are not shared between
// instances, so it may under-enforce. Used as the single-process backing
// store and as the fallback when Redis is down.
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
}

func NewMemory(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{hits: make(map[string][]time.Time), limit: limit, window: window}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	fresh := l.hits[key][:0]
	for _, ts := range l.hits[key] {
		if now.Sub(ts) < l.window {
			fresh = append(fresh, ts)
		}
	}
	fresh = append(fresh, now)
	l.hits[key] = fresh

	l.sweep(now)
	return len(fresh) <= l.limit, nil
}

// sweep drops keys whose every hit has aged out.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, times := range l.hits {
		if len(times) == 0 || now.Sub(times[len(times)-1]) >= l.window {
			delete(l.hits, key)
		}
	}
}
