package service

import (
	"context"
	"errors"
	"testing"

	"attractionhub/internal/infrastructure/cache"
	"attractionhub/internal/infrastructure/vendorapi"
)

type fakeAuthenticator struct {
	data  *vendorapi.AuthData
	err   error
	calls int
}

func (a *fakeAuthenticator) Authenticate(_ context.Context) (*vendorapi.AuthData, error) {
	a.calls++
	return a.data, a.err
}

func TestGetTokenCaching(t *testing.T) {
	auth := &fakeAuthenticator{data: &vendorapi.AuthData{AccessToken: "tok-1", ExpiresIn: 3600}}
	svc := NewSessionService(cache.NewMemoryCache(), auth)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		token, err := svc.GetToken(ctx)
		if err != nil {
			t.Fatalf("GetToken() error = %v", err)
		}
		if token != "tok-1" {
			t.Errorf("GetToken() = %s", token)
		}
	}
	if auth.calls != 1 {
		t.Errorf("认证次数 = %d, 期望缓存命中后只认证 1 次", auth.calls)
	}
}

func TestGetTokenShortLivedNotCached(t *testing.T) {
	// 有效期低于提前量的令牌只用不存
	auth := &fakeAuthenticator{data: &vendorapi.AuthData{AccessToken: "tok-short", ExpiresIn: 200}}
	svc := NewSessionService(cache.NewMemoryCache(), auth)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.GetToken(ctx); err != nil {
			t.Fatalf("GetToken() error = %v", err)
		}
	}
	if auth.calls != 2 {
		t.Errorf("认证次数 = %d, 短命令牌不该被缓存", auth.calls)
	}
}

func TestGetTokenAuthFailure(t *testing.T) {
	auth := &fakeAuthenticator{err: errFakeFailure}
	svc := NewSessionService(cache.NewMemoryCache(), auth)

	_, err := svc.GetToken(context.Background())
	if !errors.Is(err, ErrAuthenticationFailure) {
		t.Errorf("error = %v, want ErrAuthenticationFailure", err)
	}
}

func TestGetTokenEmptyToken(t *testing.T) {
	auth := &fakeAuthenticator{data: &vendorapi.AuthData{AccessToken: "", ExpiresIn: 3600}}
	svc := NewSessionService(cache.NewMemoryCache(), auth)

	if _, err := svc.GetToken(context.Background()); !errors.Is(err, ErrAuthenticationFailure) {
		t.Errorf("空令牌 error = %v, want ErrAuthenticationFailure", err)
	}
}
