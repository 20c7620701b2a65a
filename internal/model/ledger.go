package model

import (
	"time"
)

// ============================================================================
// 流水类型常量
// ============================================================================

const (
	LedgerTypeAttractions = "attractions"
	LedgerTypePackage     = "package"

	CreditTypeWallet = "wallet"
)

// LedgerEntry 余额流水表
// 每笔外部订票成功后写一条，金额恒为负数（出账）
//
// 【重要】流水表只追加，不修改，不删除 —— 这是"这笔订票有没有扣钱"的唯一事实来源
type LedgerEntry struct {
	// TransactionID 幂等键，取供应商返回的确认号；供应商没给时才现场生成
	TransactionID string    `gorm:"type:varchar(64);primaryKey" json:"transaction_id"`
	UserID        string    `gorm:"type:varchar(64);index;not null" json:"userId"`
	CreatedBy     string    `gorm:"type:varchar(64)" json:"created_by"`
	UserName      string    `gorm:"type:varchar(128)" json:"user_name"`
	Amount        float64   `gorm:"not null" json:"amount"`      // 恒为负
	BaseAmount    float64   `gorm:"not null" json:"base_amount"` // 恒为负
	Currency      string    `gorm:"type:varchar(8);not null" json:"currency"`
	Type          string    `gorm:"type:varchar(20);not null" json:"type"`
	ReferenceNo   string    `gorm:"type:varchar(16)" json:"reference_no"`
	CreditType    string    `gorm:"type:varchar(20);not null;default:wallet" json:"credit_type"`
	AgentID       string    `gorm:"type:varchar(64)" json:"agent_id"`
	Meta          string    `gorm:"type:text" json:"meta"` // 完整请求/响应 JSON（空字段已剔除）
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (LedgerEntry) TableName() string {
	return "user_balance_transaction"
}
