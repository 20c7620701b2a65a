package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"attractionhub/internal/model"
	"attractionhub/internal/service"
)

func newProtectedRouter(auth *service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuth(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": currentUserID(c)})
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	auth := service.NewAuthService(nil, "test-secret", 24)
	token, err := auth.GenerateToken(&model.User{ID: "u1", Type: model.UserTypeAgent})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	r := newProtectedRouter(auth)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"没带令牌", "", http.StatusUnauthorized},
		{"乱码令牌", "Bearer garbage", http.StatusUnauthorized},
		{"带Bearer前缀", "Bearer " + token, http.StatusOK},
		{"不带Bearer前缀", token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	auth := service.NewAuthService(nil, "test-secret", 24)
	other := service.NewAuthService(nil, "other-secret", 24)
	token, err := other.GenerateToken(&model.User{ID: "u1", Type: model.UserTypeAgent})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	r := newProtectedRouter(auth)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
