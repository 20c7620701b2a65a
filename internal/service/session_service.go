package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"attractionhub/internal/infrastructure/cache"
	"attractionhub/internal/infrastructure/vendorapi"
)

const (
	// 供应商令牌的缓存键
	vendorTokenCacheKey = "vendorapi:session:token"
	// 令牌缓存比真实有效期提前 300 秒过期，避免拿到临期令牌立刻失效
	tokenExpiryBufferSeconds = 300
)

// Authenticator 供应商认证接口，由 vendorapi.Client 实现
type Authenticator interface {
	Authenticate(ctx context.Context) (*vendorapi.AuthData, error)
}

// SessionService 管理供应商 API 会话令牌
// 令牌只进缓存不落库：丢了就重新认证一次，代价很低
type SessionService struct {
	cache  cache.Cache
	vendor Authenticator
}

func NewSessionService(c cache.Cache, vendor Authenticator) *SessionService {
	return &SessionService{cache: c, vendor: vendor}
}

// GetToken 返回可用的供应商访问令牌，缓存未命中时重新认证
func (s *SessionService) GetToken(ctx context.Context) (string, error) {
	token, err := s.cache.Get(ctx, vendorTokenCacheKey)
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && err != cache.ErrCacheMiss {
		// 缓存故障不阻断业务，直接走认证
		log.Printf("读取令牌缓存失败: %v", err)
	}

	auth, err := s.vendor.Authenticate(ctx)
	if err != nil {
		log.Printf("供应商认证失败: %v", err)
		return "", fmt.Errorf("%w: %v", ErrAuthenticationFailure, err)
	}
	if auth.AccessToken == "" {
		return "", ErrAuthenticationFailure
	}

	ttl := time.Duration(auth.ExpiresIn-tokenExpiryBufferSeconds) * time.Second
	if ttl <= 0 {
		// 有效期异常短的令牌只用不存
		log.Printf("供应商令牌有效期异常: %d 秒, 跳过缓存", auth.ExpiresIn)
		return auth.AccessToken, nil
	}
	if err := s.cache.Set(ctx, vendorTokenCacheKey, auth.AccessToken, ttl); err != nil {
		log.Printf("写入令牌缓存失败: %v", err)
	}
	return auth.AccessToken, nil
}
