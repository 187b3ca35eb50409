package auth

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"personal-site-api/app/server/constants"
	"sync"
	"time"
)

// LoginLimiter 限制同一个来源在窗口内的失败登录次数
type LoginLimiter interface {
	// Check 返回是否还允许尝试，不记录
	Check(ctx context.Context, key string) bool
	// Record 记录一次失败
	Record(ctx context.Context, key string)
	// Reset 登录成功后清空记录
	Reset(ctx context.Context, key string)
}

type MemoryLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time

	lastSweep time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Check(_ context.Context, key string) bool {
	if l.max <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.prune(key)) < l.max
}

func (l *MemoryLimiter) Record(_ context.Context, key string) {
	if l.max <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.attempts[key] = append(l.prune(key), l.now())
	l.sweep()
}

func (l *MemoryLimiter) Reset(_ context.Context, key string) {
	l.mu.Lock()
	delete(l.attempts, key)
	l.mu.Unlock()
}

// prune 清理窗口外的记录，调用方需持有锁
func (l *MemoryLimiter) prune(key string) []time.Time {
	cutoff := l.now().Add(-l.window)

	hits := l.attempts[key]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) == 0 {
		delete(l.attempts, key)
		return nil
	}

	l.attempts[key] = kept
	return kept
}

// sweep 每个窗口最多清理一次所有来源，不再出现的来源不会一直占用内存，调用方需持有锁
func (l *MemoryLimiter) sweep() {
	now := l.now()
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now

	for key := range l.attempts {
		l.prune(key)
	}
}

// RedisLimiter 在多个实例之间共享计数，计数在窗口结束后整体过期
type RedisLimiter struct {
	rdb    *redis.Client
	l      *zap.Logger
	max    int
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, l *zap.Logger, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		l:      l,
		max:    max,
		window: window,
	}
}

func (l *RedisLimiter) Check(ctx context.Context, key string) bool {
	if l.max <= 0 {
		return true
	}

	count, err := l.rdb.Get(ctx, cacheKey(key)).Int()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// redis 不可用时放行，避免管理员被锁在外面
			l.l.Error("failed to query login attempts", zap.String("key", key), zap.Error(err))
		}
		return true
	}

	return count < l.max
}

func (l *RedisLimiter) Record(ctx context.Context, key string) {
	if l.max <= 0 {
		return
	}

	ck := cacheKey(key)
	if _, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, ck)
		pipe.ExpireNX(ctx, ck, l.window)
		return nil
	}); err != nil {
		l.l.Error("failed to record login attempt", zap.String("key", key), zap.Error(err))
	}
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) {
	if err := l.rdb.Del(ctx, cacheKey(key)).Err(); err != nil {
		l.l.Error("failed to reset login attempts", zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(key string) string {
	return fmt.Sprintf(constants.CacheKeyLoginAttempts, key)
}
