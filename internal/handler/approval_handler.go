package handler

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"attractionhub/internal/service"
)

// ApprovalHandler 审批人从邮件链接进来的批准/驳回页面
// 访问者没有平台会话，身份全靠链接里的一次性令牌
type ApprovalHandler struct {
	approval *service.ApprovalService
}

func NewApprovalHandler(approval *service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approval: approval}
}

// ApproveBookingRequest 批准
func (h *ApprovalHandler) ApproveBookingRequest(c *gin.Context) {
	hash := c.Query("hash")
	if hash == "" {
		writeApprovalPage(c, http.StatusBadRequest, "链接不完整", "这个审批链接缺少必要参数, 请使用邮件里的原始链接。")
		return
	}
	approval, err := h.approval.Approve(c.Request.Context(), hash)
	if err != nil {
		writeApprovalDecisionError(c, err)
		return
	}
	applicant := html.EscapeString(approval.ApplicantName)
	token, terr := h.approval.RequesterToken(approval.ID)
	if terr != nil {
		writeApprovalPage(c, http.StatusOK, "已批准",
			fmt.Sprintf("%s 的订票申请已批准, 但生成申请人令牌失败, 请联系技术支持。", applicant))
		return
	}
	writeApprovalPage(c, http.StatusOK, "已批准",
		fmt.Sprintf("%s 的订票申请已批准。请将以下令牌转交申请人, 在提交订票时填入:<br><code>%s</code>",
			applicant, html.EscapeString(token)))
}

// RejectBookingRequest 驳回
func (h *ApprovalHandler) RejectBookingRequest(c *gin.Context) {
	hash := c.Query("hash")
	if hash == "" {
		writeApprovalPage(c, http.StatusBadRequest, "链接不完整", "这个审批链接缺少必要参数, 请使用邮件里的原始链接。")
		return
	}
	approval, err := h.approval.Reject(c.Request.Context(), hash)
	if err != nil {
		writeApprovalDecisionError(c, err)
		return
	}
	writeApprovalPage(c, http.StatusOK, "已驳回",
		fmt.Sprintf("%s 的订票申请已驳回。", html.EscapeString(approval.ApplicantName)))
}

func writeApprovalDecisionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrApprovalAlreadyDecided):
		writeApprovalPage(c, http.StatusConflict, "已处理过", "这份审批单已经被处理过了, 审批链接是一次性的。")
	case errors.Is(err, service.ErrApprovalInvalid):
		writeApprovalPage(c, http.StatusUnauthorized, "链接无效", "审批链接无效或已失效, 请使用邮件里的原始链接。")
	default:
		writeApprovalPage(c, http.StatusInternalServerError, "处理失败", "系统繁忙, 请稍后再试。")
	}
}

// writeApprovalPage 审批结果页，给邮件客户端里点链接的人看
func writeApprovalPage(c *gin.Context, status int, title, body string) {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="zh">
<head><meta charset="utf-8"><title>%s</title></head>
<body style="font-family: sans-serif; max-width: 640px; margin: 48px auto;">
<h2>%s</h2>
<p>%s</p>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), body)
	c.Data(status, "text/html; charset=utf-8", []byte(page))
}
