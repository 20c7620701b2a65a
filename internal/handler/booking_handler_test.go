package handler

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"attractionhub/internal/repository"
	"attractionhub/internal/service"
)

func TestWriteBookingError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"报文不合法", service.ErrInvalidBookingRequest, 400},
		{"没有审批人", service.ErrNoApprovers, 400},
		{"用户不存在", fmt.Errorf("查询用户失败 u1: %w", repository.ErrUserNotFound), 401},
		{"需要审批", service.ErrApprovalRequired, 401},
		{"审批令牌无效", service.ErrApprovalInvalid, 401},
		{"余额不足", service.ErrInsufficientBalance, 402},
		{"冻结后余额不足", service.ErrInsufficientBalanceAfterHolds, 402},
		{"余额查询失败", service.ErrBalanceLookup, 500},
		{"供应商下单失败", service.ErrVendorBookingFailed, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			writeBookingError(c, tt.err)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
