// Package ratelimit throttles the public write endpoints per client.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/redis/go-redis/v9"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type bucket struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// MemoryLimiter keeps one token bucket per key in a bounded LRU. Evicted
// keys start over with a full bucket.
type MemoryLimiter struct {
	perMinute float64
	burst     float64
	buckets   *lru.Cache
	now       func() time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

func NewMemoryLimiter(perMinute float64, size int) (*MemoryLimiter, error) {
	if perMinute <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %v", perMinute)
	}
	if size <= 0 {
		size = 10000
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &MemoryLimiter{
		perMinute: perMinute,
		burst:     math.Max(1, perMinute),
		buckets:   cache,
		now:       time.Now,
	}, nil
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()
	fresh := &bucket{tokens: l.burst, last: now}
	existing, _, _ := l.buckets.PeekOrAdd(key, fresh)
	b := fresh
	if existing != nil {
		b = existing.(*bucket)
		l.buckets.Get(key)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if elapsed := now.Sub(b.last); elapsed > 0 {
		b.tokens = math.Min(l.burst, b.tokens+elapsed.Minutes()*l.perMinute)
		b.last = now
	}
	if b.tokens < 1 {
		return false, nil
	}
	b.tokens--
	return true, nil
}

// RedisLimiter counts requests per key in fixed one-minute windows shared by
// every replica.
type RedisLimiter struct {
	client    redis.UniversalClient
	prefix    string
	perMinute int64
	now       func() time.Time
}

var _ Limiter = (*RedisLimiter)(nil)

func NewRedisLimiter(client redis.UniversalClient, prefix string, perMinute float64) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		prefix:    prefix,
		perMinute: int64(math.Max(1, math.Floor(perMinute))),
		now:       time.Now,
	}
}

func (l *RedisLimiter) windowKey(key string) string {
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, l.now().Unix()/60)
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := l.windowKey(key)
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	return incr.Val() <= l.perMinute, nil
}
