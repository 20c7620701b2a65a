package model

import (
	"time"
)

// UserBalance 钱包余额表
// 每个钱包归属者一条记录；共享钱包场景下归属者是上级账号
type UserBalance struct {
	OwnerID   string    `gorm:"type:varchar(64);primaryKey" json:"owner_id"`
	Total     float64   `gorm:"not null;default:0" json:"total"`
	Currency  string    `gorm:"type:varchar(8);not null" json:"currency"`
	Version   int       `gorm:"not null;default:0" json:"version"` // 乐观锁版本号
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserBalance) TableName() string {
	return "user_balance"
}

// FundsOnHold 资金冻结表
// 已占用但未结算的金额，在审批余额前从可用余额中扣除；本服务只读
type FundsOnHold struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:varchar(64);index;not null" json:"userId"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Currency  string    `gorm:"type:varchar(8);not null" json:"currency"`
	Reference string    `gorm:"type:varchar(128)" json:"reference"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (FundsOnHold) TableName() string {
	return "user_funds_on_hold"
}
