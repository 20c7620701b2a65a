package repository

import (
	"context"
	"errors"

	"attractionhub/internal/model"

	"gorm.io/gorm"
)

var ErrAccessLevelNotFound = errors.New("access level not found")

type AccessLevelRepository struct {
	db *gorm.DB
}

func NewAccessLevelRepository(db *gorm.DB) *AccessLevelRepository {
	return &AccessLevelRepository{db: db}
}

func (r *AccessLevelRepository) GetByID(ctx context.Context, id string) (*model.AccessLevel, error) {
	if id == "" {
		return nil, ErrAccessLevelNotFound
	}

	var level model.AccessLevel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&level).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessLevelNotFound
		}
		return nil, err
	}
	return &level, nil
}

// ListByCreator 查询某账号创建的所有权限等级（审批人委派查找用）
func (r *AccessLevelRepository) ListByCreator(ctx context.Context, createdBy string) ([]*model.AccessLevel, error) {
	var levels []*model.AccessLevel
	err := r.db.WithContext(ctx).Where("created_by = ?", createdBy).Find(&levels).Error
	return levels, err
}
