package handler

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"attractionhub/internal/service"
	"attractionhub/pkg/response"
)

const (
	ctxKeyUserID = "user_id"
	ctxKeyClaims = "claims"
)

// Logger 请求日志中间件
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Printf("[%s] %s %d %v", c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// Recovery 异常恢复中间件
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("请求处理panic: %v", err)
				response.ServerError(c, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// CORS 跨域中间件
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// JWTAuth 访问令牌校验中间件
// 令牌放 Authorization 头，Bearer 前缀可带可不带
func JWTAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "authorization token is required")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := auth.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ctxKeyUserID, claims.UserID)
		c.Set(ctxKeyClaims, claims)
		c.Next()
	}
}

// currentUserID 从上下文取当前登录用户
func currentUserID(c *gin.Context) string {
	return c.GetString(ctxKeyUserID)
}

// currentClaims 从上下文取令牌载荷
func currentClaims(c *gin.Context) *service.Claims {
	v, ok := c.Get(ctxKeyClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*service.Claims)
	return claims
}
