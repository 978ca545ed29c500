package utils

import (
	"sync"
	"time"
)

// TTLCache 带过期时间的并发安全缓存，使用 sync.Map 存储
// 读取时懒删除过期项，Sweep 由定时任务批量清理
type TTLCache[V any] struct {
	items sync.Map
	ttl   time.Duration
	now   func() time.Time
}

// cacheItem 内部结构，包含值和过期时间
type cacheItem[V any] struct {
	value      V
	expiration time.Time
}

// NewTTLCache 创建缓存
func NewTTLCache[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{ttl: ttl, now: time.Now}
}

// Set 写入并刷新过期时间
func (c *TTLCache[V]) Set(key string, value V) {
	c.items.Store(key, cacheItem[V]{value: value, expiration: c.now().Add(c.ttl)})
}

// Get 获取缓存并验证是否过期，命中时续期
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V
	val, ok := c.items.Load(key)
	if !ok {
		return zero, false
	}

	item := val.(cacheItem[V])
	if c.now().After(item.expiration) {
		c.items.Delete(key) // 懒删除
		return zero, false
	}

	c.items.Store(key, cacheItem[V]{value: item.value, expiration: c.now().Add(c.ttl)})
	return item.value, true
}

// GetOrCreate 不存在或已过期时用 create 生成新值 (LoadOrStore 防止并发重复创建)
func (c *TTLCache[V]) GetOrCreate(key string, create func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	fresh := cacheItem[V]{value: create(), expiration: c.now().Add(c.ttl)}
	actual, loaded := c.items.LoadOrStore(key, fresh)
	if loaded {
		item := actual.(cacheItem[V])
		if c.now().After(item.expiration) {
			c.items.Store(key, fresh)
			return fresh.value
		}
		return item.value
	}
	return fresh.value
}

// Delete 删除缓存
func (c *TTLCache[V]) Delete(key string) {
	c.items.Delete(key)
}

// Sweep 清理全部过期项，返回清理数量
func (c *TTLCache[V]) Sweep() int {
	now := c.now()
	removed := 0
	c.items.Range(func(key, val any) bool {
		if now.After(val.(cacheItem[V]).expiration) {
			c.items.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Len 当前条目数 (含未清理的过期项)
func (c *TTLCache[V]) Len() int {
	n := 0
	c.items.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
