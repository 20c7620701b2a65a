package model

import (
	"time"
)

const (
	ApprovalStatusPending  = 0
	ApprovalStatusApproved = 1
	ApprovalStatusRejected = 2
)

// BookingApproval 订票审批单
// 申请时写入 status=0，审批人通过一次性链接把状态改为 1（或驳回为 2），
// 申请人带着审批令牌重试下单时只读不删
type BookingApproval struct {
	ID            string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Status        int       `gorm:"not null;default:0;index" json:"status"`
	ApplicantID   string    `gorm:"type:varchar(64);index;not null" json:"applicant_id"`
	ApplicantName string    `gorm:"type:varchar(128)" json:"applicant_name"`
	Cost          float64   `gorm:"not null;default:0" json:"cost"`
	TicketSummary string    `gorm:"type:varchar(512)" json:"ticket_summary"`
	Meta          string    `gorm:"type:text" json:"meta"` // 审批单详情 JSON
	ApprovedBy    string    `gorm:"type:varchar(64)" json:"approved_by"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"timestamp"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BookingApproval) TableName() string {
	return "booking_approval"
}
