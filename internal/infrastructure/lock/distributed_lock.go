package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ============================================================================
// 分布式锁
// ============================================================================
//
// 余额校验（查余额 -> 算差额）与流水落库之间没有事务边界，同一钱包的两笔并发
// 订票可能基于同一份余额快照双双通过校验，导致超扣。按钱包归属者加锁，
// 把"校验 -> 供应商下单 -> 落流水"这段窗口串行化。
//
// 加锁：SET key value NX EX timeout
// 释放：Lua 脚本先验 value 再删 key，避免误删别人的锁

var (
	ErrLockFailed = errors.New("获取分布式锁失败")
)

// DistributedLock 分布式锁
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string // 锁持有者标识，释放时验证
	expiration time.Duration
}

// NewDistributedLock 创建分布式锁
func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock 尝试获取锁（非阻塞）
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

// Lock 阻塞式获取锁（带重试）
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		success, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if success {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock 释放锁
// Lua 脚本保证"检查+删除"的原子性：锁过期后被别人拿走时不能删掉对方的锁
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// NewWalletLock 按钱包归属者维度的订票锁
// 不同钱包可以并发下单；同一钱包串行，这正是防超扣需要的粒度。
// value 使用本次订票的追踪ID，便于排查锁被谁持有
func NewWalletLock(client *redis.Client, walletOwnerID, trackingID string, expiration time.Duration) *DistributedLock {
	key := fmt.Sprintf("booking:lock:wallet:%s", walletOwnerID)
	return NewDistributedLock(client, key, trackingID, expiration)
}
