package service

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"attractionhub/internal/infrastructure/lock"
)

// RedisWalletLocker 基于 Redis 的钱包锁实现
type RedisWalletLocker struct {
	client     *redis.Client
	expiration time.Duration
}

func NewRedisWalletLocker(client *redis.Client, lockSeconds int) *RedisWalletLocker {
	if lockSeconds <= 0 {
		lockSeconds = 60
	}
	return &RedisWalletLocker{client: client, expiration: time.Duration(lockSeconds) * time.Second}
}

// Acquire 阻塞式获取钱包锁，最多重试 20 次、每次间隔 500ms
// 拿不到就放弃：说明同一钱包有别的订票在途，让客户端稍后再试
func (l *RedisWalletLocker) Acquire(ctx context.Context, walletOwnerID, trackingID string) (func(), error) {
	walletLock := lock.NewWalletLock(l.client, walletOwnerID, trackingID, l.expiration)
	if err := walletLock.Lock(ctx, 500*time.Millisecond, 20); err != nil {
		return nil, err
	}
	return func() {
		if err := walletLock.Unlock(context.Background()); err != nil {
			log.Printf("释放钱包锁失败 wallet=%s: %v", walletOwnerID, err)
		}
	}, nil
}
