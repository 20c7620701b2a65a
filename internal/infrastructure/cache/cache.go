package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCacheMiss 键不存在或已过期
var ErrCacheMiss = errors.New("cache miss")

// Cache 注入式缓存抽象
// 供应商令牌、汇率、审批单热缓存都走这一层，测试里换成内存实现即可控制时间，
// 避免进程级全局 map 带来的跨测试串扰
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ============================================================================
// 内存实现（测试与单机兜底）
// ============================================================================

type memoryItem struct {
	value    string
	expireAt time.Time
}

// MemoryCache 进程内缓存，读时惰性过期，写时顺带清理
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

// NewMemoryCacheWithClock 测试用，注入时钟
func NewMemoryCacheWithClock(now func() time.Time) *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryItem),
		now:   now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return "", ErrCacheMiss
	}
	if !item.expireAt.IsZero() && item.expireAt.Before(m.now()) {
		delete(m.items, key)
		return "", ErrCacheMiss
	}
	return item.value, nil
}

func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expireAt time.Time
	if ttl > 0 {
		expireAt = m.now().Add(ttl)
	}
	m.items[key] = memoryItem{value: value, expireAt: expireAt}

	// 顺带清理已过期的键，防止只写不读时持续膨胀
	now := m.now()
	for k, it := range m.items {
		if !it.expireAt.IsZero() && it.expireAt.Before(now) {
			delete(m.items, k)
		}
	}
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
