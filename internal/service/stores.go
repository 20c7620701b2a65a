package service

import (
	"context"

	"gorm.io/gorm"

	"attractionhub/internal/model"
)

// service 层按使用方定义窄接口，repository 的具体实现天然满足，
// 单测用假实现替换即可，不需要数据库

type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListByType(ctx context.Context, userType string) ([]*model.User, error)
	ListByAccessLevelIDs(ctx context.Context, ids []string) ([]*model.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type AgencyStore interface {
	GetByID(ctx context.Context, id string) (*model.Agency, error)
}

type AccessLevelStore interface {
	GetByID(ctx context.Context, id string) (*model.AccessLevel, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*model.AccessLevel, error)
}

type BalanceStore interface {
	GetByOwnerID(ctx context.Context, ownerID string) (*model.UserBalance, error)
}

type HoldsStore interface {
	SumByUserAndCurrency(ctx context.Context, userID, currency string) (float64, error)
}

type ApprovalStore interface {
	Create(ctx context.Context, tx *gorm.DB, approval *model.BookingApproval) error
	GetByID(ctx context.Context, id string) (*model.BookingApproval, error)
	UpdateStatus(ctx context.Context, id string, status int, approvedBy string) error
}

type OutboxStore interface {
	Create(ctx context.Context, tx *gorm.DB, msg *model.OutboxMessage) error
}
