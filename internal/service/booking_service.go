package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"attractionhub/internal/infrastructure/vendorapi"
	"attractionhub/internal/model"
	"attractionhub/pkg/idgen"
)

// TokenProvider 供应商会话令牌来源
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// BookingVendor 供应商下单接口
type BookingVendor interface {
	CreateTransaction(ctx context.Context, token string, req *vendorapi.CreateTransactionRequest) (*vendorapi.CreateTransactionResponse, error)
	CancelTransaction(ctx context.Context, token, referenceNumber string) (json.RawMessage, error)
}

// ApprovalGate 审批校验与发起
type ApprovalGate interface {
	ValidateBookingApproval(ctx context.Context, category, token string, user *model.User) error
	CreateApprovalRequest(ctx context.Context, user *model.User, hash string, input *ApprovalRequestInput) (*ApprovalDispatchResult, error)
}

// BalanceGate 钱包归属与余额校验
type BalanceGate interface {
	ResolveWalletOwner(ctx context.Context, user *model.User) (string, error)
	ValidateBalance(ctx context.Context, user *model.User, amount float64) error
}

// LedgerCommitter 流水落账
type LedgerCommitter interface {
	Commit(ctx context.Context, entry *model.LedgerEntry, debitOwnerID string) error
	GetByTransactionID(ctx context.Context, transactionID string) (*model.LedgerEntry, error)
}

// ResponseConverter 订单响应币种换算
type ResponseConverter interface {
	ConvertBookingResponse(ctx context.Context, resp *vendorapi.CreateTransactionResponse, target string)
}

// WalletLocker 钱包锁，release 必须在持锁路径上 defer 调用
type WalletLocker interface {
	Acquire(ctx context.Context, walletOwnerID, trackingID string) (release func(), err error)
}

// BookingRequest 订票入参：供应商下单报文 + 审批令牌
type BookingRequest struct {
	vendorapi.CreateTransactionRequest
	ApprovalToken string `json:"approval_id"`
}

// ApprovalBookingRequest 发起审批的入参：订票报文 + 客户端持有的加密审批单号
type ApprovalBookingRequest struct {
	BookingRequest
	Hash string `json:"hash"`
}

// Validate 入参校验，任何一项不过整个请求直接拒绝
func (r *BookingRequest) Validate() error {
	if strings.TrimSpace(r.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidBookingRequest)
	}
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidBookingRequest)
	}
	if len(r.TicketTypes) == 0 {
		return fmt.Errorf("%w: at least one ticket is required", ErrInvalidBookingRequest)
	}
	for i, line := range r.TicketTypes {
		if line.ID <= 0 {
			return fmt.Errorf("%w: ticketTypes[%d].id is required", ErrInvalidBookingRequest, i)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: ticketTypes[%d].quantity must be positive", ErrInvalidBookingRequest, i)
		}
		if line.SellingPrice < 0 {
			return fmt.Errorf("%w: ticketTypes[%d].sellingPrice must not be negative", ErrInvalidBookingRequest, i)
		}
	}
	return nil
}

// Total 全部票项的应付总额
func (r *BookingRequest) Total() float64 {
	var total float64
	for _, line := range r.TicketTypes {
		total += line.SellingPrice * float64(line.Quantity)
	}
	return total
}

// TicketSummary 给审批通知用的票项摘要
func (r *BookingRequest) TicketSummary() string {
	parts := make([]string, 0, len(r.TicketTypes))
	for _, line := range r.TicketTypes {
		part := fmt.Sprintf("票种%d x%d", line.ID, line.Quantity)
		if line.VisitDate != "" {
			part += " (" + line.VisitDate + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// BookingResult 订票成功的返回
type BookingResult struct {
	Response    *vendorapi.CreateTransactionResponse `json:"response"`
	Transaction *model.LedgerEntry                   `json:"transaction"`
}

// BookingService 订票主流程编排
type BookingService struct {
	users     UserStore
	approvals ApprovalGate
	funds     BalanceGate
	session   TokenProvider
	vendor    BookingVendor
	ledger    LedgerCommitter
	converter ResponseConverter
	locker    WalletLocker
}

func NewBookingService(users UserStore, approvals ApprovalGate, funds BalanceGate,
	session TokenProvider, vendor BookingVendor, ledger LedgerCommitter,
	converter ResponseConverter, locker WalletLocker) *BookingService {
	return &BookingService{
		users:     users,
		approvals: approvals,
		funds:     funds,
		session:   session,
		vendor:    vendor,
		ledger:    ledger,
		converter: converter,
		locker:    locker,
	}
}

// CreateBooking 订票主流程
//
// 顺序不能乱：校验全部在前，供应商下单在中间只发一次，落账在后。
// 供应商下单是整条链路里唯一不可回滚的一步，它失败不写任何流水；
// 它成功后落账失败则返回对账错误，绝不重发下单请求
func (s *BookingService) CreateBooking(ctx context.Context, userID string, req *BookingRequest) (*BookingResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败 %s: %w", userID, err)
	}

	if err := s.approvals.ValidateBookingApproval(ctx, model.CategoryAttractions, req.ApprovalToken, user); err != nil {
		return nil, err
	}

	total := req.Total()
	trackingID := idgen.GenerateBookingReference()

	// 管理员代订不动钱包，跳过锁和余额校验
	debitOwnerID := ""
	if !model.IsAdmin(user) {
		ownerID, err := s.funds.ResolveWalletOwner(ctx, user)
		if err != nil {
			return nil, err
		}
		release, err := s.locker.Acquire(ctx, ownerID, trackingID)
		if err != nil {
			return nil, fmt.Errorf("钱包正忙, 请稍后重试: %w", err)
		}
		defer release()

		if err := s.funds.ValidateBalance(ctx, user, total); err != nil {
			return nil, err
		}
		debitOwnerID = ownerID
	}

	token, err := s.session.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.vendor.CreateTransaction(ctx, token, &req.CreateTransactionRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVendorBookingFailed, err)
	}
	if resp.Data == nil || resp.Data.ReferenceNumber == "" {
		// 没有确认号就无法对账，按失败处理
		log.Printf("供应商响应缺少确认号 tracking=%s", trackingID)
		return nil, fmt.Errorf("%w: missing reference number in vendor response", ErrVendorBookingFailed)
	}

	entry := BuildEntry(user, total, resp.Data.Currency, resp.Data.ReferenceNumber, buildBookingMeta(req, resp))
	if err := s.ledger.Commit(ctx, entry, debitOwnerID); err != nil {
		log.Printf("【对账告警】供应商已出票 %s 但落账失败: %v", resp.Data.ReferenceNumber, err)
		return nil, fmt.Errorf("%w: %v", ErrLedgerCommitFailed, err)
	}

	// 回读落账后的流水作为返回，保证客户端看到的就是库里的
	committed, err := s.ledger.GetByTransactionID(ctx, entry.TransactionID)
	if err != nil {
		log.Printf("回读流水失败 %s: %v", entry.TransactionID, err)
		committed = entry
	}

	// 币种换算是锦上添花，失败时原样返回供应商币种
	if user.Currency != "" {
		s.converter.ConvertBookingResponse(ctx, resp, user.Currency)
	}
	return &BookingResult{Response: resp, Transaction: committed}, nil
}

// RequestApproval 发起订票审批
// 余额先做一次预检：明知付不起的单不值得打扰审批人
func (s *BookingService) RequestApproval(ctx context.Context, userID string, req *ApprovalBookingRequest) (*ApprovalDispatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败 %s: %w", userID, err)
	}
	if !model.IsAdmin(user) {
		if err := s.funds.ValidateBalance(ctx, user, req.Total()); err != nil {
			return nil, err
		}
	}
	meta := map[string]interface{}{"request": &req.CreateTransactionRequest}
	return s.approvals.CreateApprovalRequest(ctx, user, req.Hash, &ApprovalRequestInput{
		Cost:          req.Total(),
		Currency:      req.Currency,
		TicketSummary: req.TicketSummary(),
		Meta:          meta,
	})
}

// CancelBooking 按供应商确认号撤单，结果原样透传
func (s *BookingService) CancelBooking(ctx context.Context, referenceNumber string) (json.RawMessage, error) {
	if strings.TrimSpace(referenceNumber) == "" {
		return nil, fmt.Errorf("%w: reference number is required", ErrInvalidBookingRequest)
	}
	token, err := s.session.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.vendor.CancelTransaction(ctx, token, referenceNumber)
}

// buildBookingMeta 流水留痕：完整请求和响应，JSON 序列化时空字段已剔除
func buildBookingMeta(req *BookingRequest, resp *vendorapi.CreateTransactionResponse) string {
	meta, err := json.Marshal(map[string]interface{}{
		"request":  &req.CreateTransactionRequest,
		"response": resp,
	})
	if err != nil {
		return "{}"
	}
	return string(meta)
}
