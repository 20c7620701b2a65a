package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"attractionhub/internal/model"
	"attractionhub/internal/repository"
)

// LedgerService 流水落账：一个事务里写流水、扣余额、排发订票结果消息
type LedgerService struct {
	db          *gorm.DB
	ledgerRepo  *repository.LedgerRepository
	balanceRepo *repository.BalanceRepository
	outboxRepo  *repository.OutboxRepository
	resultTopic string
}

func NewLedgerService(db *gorm.DB, ledgerRepo *repository.LedgerRepository,
	balanceRepo *repository.BalanceRepository, outboxRepo *repository.OutboxRepository, resultTopic string) *LedgerService {
	return &LedgerService{
		db:          db,
		ledgerRepo:  ledgerRepo,
		balanceRepo: balanceRepo,
		outboxRepo:  outboxRepo,
		resultTopic: resultTopic,
	}
}

// BuildEntry 按约定构造一条出账流水
// 金额一律取负值入账；供应商没回确认号时现场生成一个兜底
func BuildEntry(user *model.User, amount float64, currency, vendorReference, meta string) *model.LedgerEntry {
	transactionID := vendorReference
	if transactionID == "" {
		transactionID = uuid.NewString()
	}
	return &model.LedgerEntry{
		TransactionID: transactionID,
		UserID:        user.ID,
		CreatedBy:     user.ID,
		UserName:      user.FullName(),
		Amount:        -math.Abs(amount),
		BaseAmount:    -math.Abs(amount),
		Currency:      currency,
		Type:          model.LedgerTypeAttractions,
		ReferenceNo:   uuid.NewString()[:8],
		CreditType:    model.CreditTypeWallet,
		AgentID:       user.AgencyID,
		Meta:          meta,
	}
}

// Commit 落账：流水、扣款、结果消息在同一个事务里提交
// debitOwnerID 为空表示本单不扣钱（管理员代订）
//
// 扣款时余额不足不回滚：供应商侧已经出票，流水必须落下；
// 只打告警日志留给人工对账，钱包余额不允许被本流程扣成负数
func (s *LedgerService) Commit(ctx context.Context, entry *model.LedgerEntry, debitOwnerID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ledgerRepo.Create(ctx, tx, entry); err != nil {
			return fmt.Errorf("写入流水失败: %w", err)
		}
		if debitOwnerID != "" {
			err := s.balanceRepo.Debit(ctx, tx, debitOwnerID, math.Abs(entry.Amount))
			if errors.Is(err, repository.ErrBalanceNotEnough) || errors.Is(err, repository.ErrBalanceNotFound) {
				log.Printf("【对账告警】流水 %s 已落但钱包 %s 扣款失败: %v", entry.TransactionID, debitOwnerID, err)
			} else if err != nil {
				return fmt.Errorf("扣款失败: %w", err)
			}
		}
		if err := s.enqueueResult(ctx, tx, entry); err != nil {
			// 结果消息只是通知，不值得让落账回滚
			log.Printf("订票结果消息入队失败 %s: %v", entry.TransactionID, err)
		}
		return nil
	})
}

func (s *LedgerService) enqueueResult(ctx context.Context, tx *gorm.DB, entry *model.LedgerEntry) error {
	payload, err := json.Marshal(map[string]interface{}{
		"type":           "attraction_booking_completed",
		"transaction_id": entry.TransactionID,
		"reference_no":   entry.ReferenceNo,
		"user_id":        entry.UserID,
		"amount":         entry.Amount,
		"currency":       entry.Currency,
	})
	if err != nil {
		return err
	}
	return s.outboxRepo.Create(ctx, tx, &model.OutboxMessage{
		MessageKey: entry.TransactionID,
		Topic:      s.resultTopic,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	})
}

// GetByTransactionID 按幂等键查流水
func (s *LedgerService) GetByTransactionID(ctx context.Context, transactionID string) (*model.LedgerEntry, error) {
	return s.ledgerRepo.GetByTransactionID(ctx, transactionID)
}

// ListByUserID 查用户最近的出账流水
func (s *LedgerService) ListByUserID(ctx context.Context, userID string, limit int) ([]*model.LedgerEntry, error) {
	return s.ledgerRepo.ListByUserID(ctx, userID, limit)
}
