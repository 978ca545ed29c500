package middleware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
)

// ==================== InFlightGuard 重复提交保护 ====================

// InFlightGuard 同一个 key 同时只允许一个操作在执行
// release 必须在操作结束后调用 (无论成功失败)
type InFlightGuard interface {
	Acquire(ctx context.Context, key string) (release func(), ok bool, err error)
}

// ==================== 本地实现 ====================

// LocalGuard 单进程内的保护
type LocalGuard struct {
	locks sync.Map // key -> *inflightEntry
}

// inflightEntry 锁条目
type inflightEntry struct {
	mu      sync.Mutex
	running bool
	since   time.Time
}

// NewLocalGuard 创建本地保护
func NewLocalGuard() *LocalGuard {
	return &LocalGuard{}
}

// Acquire 已有同 key 操作在执行时返回 ok=false
func (g *LocalGuard) Acquire(_ context.Context, key string) (func(), bool, error) {
	actual, _ := g.locks.LoadOrStore(key, &inflightEntry{})
	entry := actual.(*inflightEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.running {
		return nil, false, nil
	}
	entry.running = true
	entry.since = time.Now()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Lock()
			entry.running = false
			entry.mu.Unlock()
			g.locks.Delete(key)
		})
	}, true, nil
}

// Running 是否有同 key 操作在执行
func (g *LocalGuard) Running(key string) bool {
	actual, ok := g.locks.Load(key)
	if !ok {
		return false
	}
	entry := actual.(*inflightEntry)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.running
}

// ==================== Redis 实现 ====================

// RedisGuard 多实例部署时使用 Redis 分布式锁
type RedisGuard struct {
	locker *redislock.Client
	ttl    time.Duration
}

// NewRedisGuard ttl 为锁的最长持有时间，防止进程崩溃后锁不释放
func NewRedisGuard(locker *redislock.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisGuard{locker: locker, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), bool, error) {
	lock, err := g.locker.Obtain(ctx, "lineboost:inflight:"+key, g.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("获取分布式锁失败: %w", err)
	}

	return func() {
		// 请求 context 可能已取消，释放用独立 context
		relCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = lock.Release(relCtx)
	}, true, nil
}

// ==================== Key 生成工具 ====================

// InFlightKey 会话 + 动作维度
func InFlightKey(sessionKey, action string) string {
	return fmt.Sprintf("session:%s:%s", sessionKey, action)
}
