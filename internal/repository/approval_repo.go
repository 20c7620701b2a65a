package repository

import (
	"context"
	"errors"

	"attractionhub/internal/model"

	"gorm.io/gorm"
)

var ErrApprovalNotFound = errors.New("approval not found")

type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

func (r *ApprovalRepository) Create(ctx context.Context, tx *gorm.DB, approval *model.BookingApproval) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(approval).Error
}

func (r *ApprovalRepository) GetByID(ctx context.Context, id string) (*model.BookingApproval, error) {
	var approval model.BookingApproval
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&approval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApprovalNotFound
		}
		return nil, err
	}
	return &approval, nil
}

// UpdateStatus 审批人通过一次性链接变更状态
func (r *ApprovalRepository) UpdateStatus(ctx context.Context, id string, status int, approvedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.BookingApproval{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"approved_by": approvedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApprovalNotFound
	}
	return nil
}
