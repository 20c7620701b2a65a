package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"attractionhub/internal/repository"
	"attractionhub/internal/service"
	"attractionhub/pkg/response"
)

// BookingHandler 订票、撤单、余额与流水查询
type BookingHandler struct {
	booking *service.BookingService
	funds   *service.FundsService
	ledger  *service.LedgerService
	users   service.UserStore
}

func NewBookingHandler(booking *service.BookingService, funds *service.FundsService,
	ledger *service.LedgerService, users service.UserStore) *BookingHandler {
	return &BookingHandler{booking: booking, funds: funds, ledger: ledger, users: users}
}

// CreateTransaction 订票主入口
func (h *BookingHandler) CreateTransaction(c *gin.Context) {
	var req service.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request body")
		return
	}
	result, err := h.booking.CreateBooking(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, "booking created", result)
}

// RequestBookingApproval 发起订票审批
func (h *BookingHandler) RequestBookingApproval(c *gin.Context) {
	var req service.ApprovalBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request body")
		return
	}
	result, err := h.booking.RequestApproval(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, "approval request sent", result)
}

// CancelTransaction 撤单，GET 和 POST 共用
// 确认号优先取 query，POST 时再看报文
func (h *BookingHandler) CancelTransaction(c *gin.Context) {
	reference := c.Query("reference_number")
	if reference == "" && c.Request.Method == http.MethodPost {
		var req struct {
			ReferenceNumber string `json:"reference_number"`
		}
		if err := c.ShouldBindJSON(&req); err == nil {
			reference = req.ReferenceNumber
		}
	}
	raw, err := h.booking.CancelBooking(c.Request.Context(), reference)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, "cancellation submitted", raw)
}

// GetBalance 查当前用户生效钱包的余额
func (h *BookingHandler) GetBalance(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Unauthorized(c, "user not found")
		return
	}
	data, err := h.funds.GetBalanceData(c.Request.Context(), user)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, "balance retrieved", data)
}

// GetTransactions 查当前用户最近的出账流水
func (h *BookingHandler) GetTransactions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := h.ledger.ListByUserID(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		response.ServerError(c, "failed to retrieve transactions")
		return
	}
	response.Success(c, "transactions retrieved", entries)
}

// writeBookingError 域内错误到 HTTP 状态码的统一映射
func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidBookingRequest),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrNoApprovers):
		response.ParamError(c, err.Error())
	case errors.Is(err, repository.ErrUserNotFound):
		response.Unauthorized(c, "user not found")
	case errors.Is(err, service.ErrApprovalRequired),
		errors.Is(err, service.ErrApprovalInvalid),
		errors.Is(err, service.ErrApprovalNotOwned),
		errors.Is(err, service.ErrApprovalNotYetApproved),
		errors.Is(err, service.ErrApprovalAlreadyDecided):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrInsufficientBalanceAfterHolds):
		response.PaymentRequired(c, err.Error())
	case errors.Is(err, service.ErrBalanceLookup):
		response.ServerError(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}
