package service

import (
	"errors"
)

// 域内错误集中定义，handler 按类映射 HTTP 状态码：
// 400 入参 / 401 审批与会话 / 402 余额 / 500 供应商与落账

var (
	// ErrAuthenticationFailure 换取供应商令牌失败，对本次请求是致命的（不重试）
	ErrAuthenticationFailure = errors.New("failed to get authentication token for attraction api")

	// ErrApprovalRequired 该用户该品类必须先走审批，且请求没带审批令牌
	ErrApprovalRequired = errors.New("approval is required for this booking")
	// ErrApprovalInvalid 令牌解不开，或解出来的审批单不存在
	ErrApprovalInvalid = errors.New("approval token is not valid")
	// ErrApprovalNotOwned 审批单不属于当前申请人
	ErrApprovalNotOwned = errors.New("unauthorized booking approval")
	// ErrApprovalNotYetApproved 审批单还在等待审批
	ErrApprovalNotYetApproved = errors.New("booking has not been approved yet")
	// ErrApprovalAlreadyDecided 审批链接是一次性的，已处理过的单不能再改
	ErrApprovalAlreadyDecided = errors.New("booking approval has already been processed")
	// ErrNoApprovers 找不到任何审批人，审批流走不通，必须硬停
	ErrNoApprovers = errors.New("no approvers found for this user")

	// ErrInsufficientBalance 余额直接不够
	ErrInsufficientBalance = errors.New("user does not have enough balance")
	// ErrInsufficientBalanceAfterHolds 扣除冻结资金后不够
	ErrInsufficientBalanceAfterHolds = errors.New("not enough credits for this transaction due to funds on hold")
	// ErrBalanceLookup 余额信息取不到
	ErrBalanceLookup = errors.New("unable to retrieve balance information")

	// ErrInvalidRequest 通用的入参不合法
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidBookingRequest 订票入参不合法
	ErrInvalidBookingRequest = errors.New("invalid booking request")

	// ErrVendorBookingFailed 供应商下单失败或响应不完整
	// 【注意】外部状态此时是模糊的：供应商侧可能已经出票，不能自动重试
	ErrVendorBookingFailed = errors.New("vendor booking failed")

	// ErrLedgerCommitFailed 供应商已出票但流水没落下 —— 最严重的一类，
	// 钱已经在外部付掉了，必须大声报出来让运营人工对账
	ErrLedgerCommitFailed = errors.New("booking succeeded but ledger commit failed, manual reconciliation required")

	// ErrInvalidCredentials 登录失败
	ErrInvalidCredentials = errors.New("invalid email or password")
)
