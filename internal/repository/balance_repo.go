package repository

import (
	"context"
	"errors"

	"attractionhub/internal/model"

	"gorm.io/gorm"
)

var (
	ErrBalanceNotFound  = errors.New("balance not found")
	ErrBalanceNotEnough = errors.New("balance not enough")
)

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) GetByOwnerID(ctx context.Context, ownerID string) (*model.UserBalance, error) {
	var balance model.UserBalance
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// Debit 原子扣减余额
// 条件 UPDATE 保证并发扣款不会丢更新；余额不够时不落扣，由调用方决定如何收场。
// 预检（查余额 -> 算差额）只是快速失败路径，真正兜底靠这里的条件扣减
func (r *BalanceRepository) Debit(ctx context.Context, tx *gorm.DB, ownerID string, amount float64) error {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.UserBalance{}).
		Where("owner_id = ? AND total >= ?", ownerID, amount).
		Updates(map[string]interface{}{
			"total":   gorm.Expr("total - ?", amount),
			"version": gorm.Expr("version + 1"),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		_, err := r.GetByOwnerID(ctx, ownerID)
		if err != nil {
			return err
		}
		return ErrBalanceNotEnough
	}

	return nil
}
