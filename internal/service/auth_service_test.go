package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"attractionhub/internal/model"
)

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error = %v", err)
	}
	user := &model.User{
		ID: "u1", Type: model.UserTypeAgent, Email: "ana@x.com",
		PasswordHash: string(hash), Currency: "PHP", AgencyID: "ag1",
	}
	svc := NewAuthService(newFakeUserStore(user), "test-jwt-secret", 24)
	ctx := context.Background()

	t.Run("登录成功", func(t *testing.T) {
		token, got, err := svc.Login(ctx, "ana@x.com", "s3cret-pass")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if got.ID != "u1" {
			t.Errorf("user.ID = %s", got.ID)
		}
		claims, err := svc.ParseToken(token)
		if err != nil {
			t.Fatalf("ParseToken() error = %v", err)
		}
		if claims.UserID != "u1" || claims.Role != model.UserTypeAgent ||
			claims.AgencyID != "ag1" || claims.Currency != "PHP" {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("口令错误", func(t *testing.T) {
		if _, _, err := svc.Login(ctx, "ana@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("用户不存在返回同一个错误", func(t *testing.T) {
		if _, _, err := svc.Login(ctx, "nobody@x.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestParseTokenRejectsTampered(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), "test-jwt-secret", 24)
	other := NewAuthService(newFakeUserStore(), "different-secret", 24)

	token, err := other.GenerateToken(&model.User{ID: "u1", Type: model.UserTypeAgent})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if _, err := svc.ParseToken(token); err == nil {
		t.Error("别的密钥签的令牌必须被拒绝")
	}
	if _, err := svc.ParseToken("not.a.jwt"); err == nil {
		t.Error("乱码令牌必须被拒绝")
	}
}

func TestUpdatePassword(t *testing.T) {
	user := &model.User{ID: "u1", Type: model.UserTypeAgent, Email: "ana@x.com"}
	store := newFakeUserStore(user)
	svc := NewAuthService(store, "test-jwt-secret", 24)
	ctx := context.Background()

	t.Run("太短的口令", func(t *testing.T) {
		if err := svc.UpdatePassword(ctx, "u1", "short"); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("更新成功且入库的是哈希", func(t *testing.T) {
		if err := svc.UpdatePassword(ctx, "u1", "new-password-1"); err != nil {
			t.Fatalf("UpdatePassword() error = %v", err)
		}
		stored := store.passwords["u1"]
		if stored == "" || stored == "new-password-1" {
			t.Errorf("存的不是哈希: %q", stored)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte("new-password-1")); err != nil {
			t.Errorf("哈希校验失败: %v", err)
		}
	})
}
