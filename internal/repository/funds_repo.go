package repository

import (
	"context"

	"attractionhub/internal/model"

	"gorm.io/gorm"
)

type FundsOnHoldRepository struct {
	db *gorm.DB
}

func NewFundsOnHoldRepository(db *gorm.DB) *FundsOnHoldRepository {
	return &FundsOnHoldRepository{db: db}
}

// SumByUserAndCurrency 汇总某钱包在指定币种下的冻结金额
func (r *FundsOnHoldRepository) SumByUserAndCurrency(ctx context.Context, userID, currency string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&model.FundsOnHold{}).
		Where("user_id = ? AND currency = ?", userID, currency).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
