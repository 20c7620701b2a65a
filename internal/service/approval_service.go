package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"attractionhub/internal/infrastructure/cache"
	"attractionhub/internal/model"
	"attractionhub/pkg/crypto"
	"attractionhub/pkg/idgen"
)

const approvalCachePrefix = "booking_approval:"

// ApproverResolver 审批人解析，由 AccessService 实现
type ApproverResolver interface {
	IsApprovalRequired(ctx context.Context, category string, user *model.User) (bool, error)
	GetApprovers(ctx context.Context, user *model.User, category string) ([]Approver, error)
}

// ApprovalRequestInput 发起审批所需的订单摘要
type ApprovalRequestInput struct {
	Cost          float64
	Currency      string
	TicketSummary string
	Meta          map[string]interface{}
}

// ApproverDispatch 单个审批人的通知投递结果
type ApproverDispatch struct {
	ApproverID string `json:"approver_id"`
	Email      string `json:"email"`
	Queued     bool   `json:"queued"`
	Error      string `json:"error,omitempty"`
}

// ApprovalDispatchResult 审批请求的发起结果
type ApprovalDispatchResult struct {
	RequestID        string             `json:"request_id"`
	ApprovalLinkSent bool               `json:"approval_link_sent"`
	Approvers        []ApproverDispatch `json:"approvers"`
}

// ApprovalService 订票审批流：发起、校验、批准、驳回
type ApprovalService struct {
	approvals    ApprovalStore
	outbox       OutboxStore
	access       ApproverResolver
	codec        *crypto.Codec
	cache        cache.Cache
	topic        string
	linkBase     string
	supportEmail string
	supportName  string
	cacheTTL     time.Duration
}

func NewApprovalService(approvals ApprovalStore, outbox OutboxStore, access ApproverResolver,
	codec *crypto.Codec, c cache.Cache, topic, linkBase, supportEmail, supportName string, cacheMinutes int) *ApprovalService {
	if cacheMinutes <= 0 {
		cacheMinutes = 15
	}
	return &ApprovalService{
		approvals:    approvals,
		outbox:       outbox,
		access:       access,
		codec:        codec,
		cache:        c,
		topic:        topic,
		linkBase:     linkBase,
		supportEmail: supportEmail,
		supportName:  supportName,
		cacheTTL:     time.Duration(cacheMinutes) * time.Minute,
	}
}

// ValidateBookingApproval 校验订票请求携带的审批令牌
// 令牌为空时只有免审批用户能通过；令牌解不开或审批单对不上统统拒绝
func (s *ApprovalService) ValidateBookingApproval(ctx context.Context, category, token string, user *model.User) error {
	required, err := s.access.IsApprovalRequired(ctx, category, user)
	if err != nil {
		return err
	}
	if token == "" {
		if required {
			return ErrApprovalRequired
		}
		return nil
	}
	requestID := s.codec.Unhash(token)
	// Unhash 解密失败会原样返回输入，等于没解出有效的审批单号
	if requestID == "" || requestID == token {
		return ErrApprovalInvalid
	}
	approval, err := s.approvals.GetByID(ctx, requestID)
	if err != nil {
		return ErrApprovalInvalid
	}
	if approval.ApplicantID != user.ID {
		return ErrApprovalNotOwned
	}
	if approval.Status != model.ApprovalStatusApproved {
		return ErrApprovalNotYetApproved
	}
	return nil
}

// CreateApprovalRequest 落审批单并给每个审批人排发一封带专属链接的通知
// hash 是客户端持有的加密审批单号：解不开一律拒绝，没带则由服务端签发一个。
// 找不到审批人是硬停：单子不落库，调用方必须把错误透传给用户
func (s *ApprovalService) CreateApprovalRequest(ctx context.Context, user *model.User, hash string, input *ApprovalRequestInput) (*ApprovalDispatchResult, error) {
	requestID := ""
	if hash != "" {
		requestID = s.codec.Unhash(hash)
		if requestID == "" || requestID == hash {
			return nil, ErrApprovalInvalid
		}
	} else {
		requestID = idgen.GenerateApprovalRequestID()
	}

	approvers, err := s.access.GetApprovers(ctx, user, model.CategoryAttractions)
	if err != nil {
		return nil, err
	}
	if len(approvers) == 0 {
		return nil, ErrNoApprovers
	}

	metaJSON, _ := json.Marshal(input.Meta)
	approval := &model.BookingApproval{
		ID:            requestID,
		Status:        model.ApprovalStatusPending,
		ApplicantID:   user.ID,
		ApplicantName: user.FullName(),
		Cost:          input.Cost,
		TicketSummary: input.TicketSummary,
		Meta:          string(metaJSON),
	}
	if err := s.approvals.Create(ctx, nil, approval); err != nil {
		return nil, fmt.Errorf("创建审批单失败: %w", err)
	}
	s.cacheApproval(ctx, approval)

	result := &ApprovalDispatchResult{RequestID: requestID}
	for _, approver := range approvers {
		dispatch := ApproverDispatch{ApproverID: approver.ID, Email: approver.Email}
		if err := s.enqueueNotice(ctx, approver, approval, input); err != nil {
			log.Printf("审批通知入队失败 request=%s approver=%s: %v", requestID, approver.ID, err)
			dispatch.Error = err.Error()
		} else {
			dispatch.Queued = true
			result.ApprovalLinkSent = true
		}
		result.Approvers = append(result.Approvers, dispatch)
	}
	return result, nil
}

// enqueueNotice 为单个审批人生成专属批准/驳回链接并写 outbox
// 链接里的哈希绑定了审批人和审批单号，不能转发给别人用
func (s *ApprovalService) enqueueNotice(ctx context.Context, approver Approver, approval *model.BookingApproval, input *ApprovalRequestInput) error {
	approverHash, err := s.codec.Hash(approver.ID + "|" + approval.ID)
	if err != nil {
		return fmt.Errorf("生成审批令牌失败: %w", err)
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type":           "booking_approval_notice",
		"request_id":     approval.ID,
		"recipient":      approver.Email,
		"recipient_name": approver.Name,
		"applicant":      approval.ApplicantName,
		"cost":           approval.Cost,
		"currency":       input.Currency,
		"tickets":        approval.TicketSummary,
		"approve_link":   fmt.Sprintf("%s/approve_booking_request?hash=%s", s.linkBase, approverHash),
		"reject_link":    fmt.Sprintf("%s/reject_booking_request?hash=%s", s.linkBase, approverHash),
		"support_email":  s.supportEmail,
		"support_name":   s.supportName,
	})
	if err != nil {
		return err
	}
	msg := &model.OutboxMessage{
		MessageKey: approval.ID,
		Topic:      s.topic,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	}
	return s.outbox.Create(ctx, nil, msg)
}

// RequesterToken 申请人侧的审批令牌，批准后随订票请求带回
func (s *ApprovalService) RequesterToken(requestID string) (string, error) {
	return s.codec.Hash(requestID)
}

// Approve 处理审批人点击批准链接
func (s *ApprovalService) Approve(ctx context.Context, hash string) (*model.BookingApproval, error) {
	return s.decide(ctx, hash, model.ApprovalStatusApproved)
}

// Reject 处理审批人点击驳回链接
func (s *ApprovalService) Reject(ctx context.Context, hash string) (*model.BookingApproval, error) {
	return s.decide(ctx, hash, model.ApprovalStatusRejected)
}

func (s *ApprovalService) decide(ctx context.Context, hash string, status int) (*model.BookingApproval, error) {
	plain := s.codec.Unhash(hash)
	parts := strings.SplitN(plain, "|", 2)
	if plain == hash || len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, ErrApprovalInvalid
	}
	approverID, requestID := parts[0], parts[1]

	approval, err := s.approvals.GetByID(ctx, requestID)
	if err != nil {
		return nil, ErrApprovalInvalid
	}
	if approval.Status != model.ApprovalStatusPending {
		return approval, ErrApprovalAlreadyDecided
	}
	if err := s.approvals.UpdateStatus(ctx, requestID, status, approverID); err != nil {
		return nil, fmt.Errorf("更新审批状态失败 %s: %w", requestID, err)
	}
	approval.Status = status
	approval.ApprovedBy = approverID
	s.cacheApproval(ctx, approval)
	return approval, nil
}

// cacheApproval 审批单热缓存，审批页面和提交订票的短窗口内省一次查库
func (s *ApprovalService) cacheApproval(ctx context.Context, approval *model.BookingApproval) {
	data, err := json.Marshal(approval)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, approvalCachePrefix+approval.ID, string(data), s.cacheTTL); err != nil {
		log.Printf("写入审批缓存失败 %s: %v", approval.ID, err)
	}
}
