package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"attractionhub/internal/service"
	"attractionhub/pkg/response"
)

// AuthHandler 登录与口令管理
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updatePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// Login 邮箱口令登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "email and password are required")
		return
	}
	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.ServerError(c, "login failed")
		return
	}
	response.Success(c, "login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"name":     user.FullName(),
			"email":    user.Email,
			"type":     user.Type,
			"currency": user.Currency,
		},
	})
}

// UpdatePassword 修改当前登录用户的口令
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "new_password is required")
		return
	}
	err := h.auth.UpdatePassword(c.Request.Context(), currentUserID(c), req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "failed to update password")
		return
	}
	response.Success(c, "password updated", nil)
}
