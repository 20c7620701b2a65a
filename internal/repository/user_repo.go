package repository

import (
	"context"
	"errors"

	"attractionhub/internal/model"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListByType 按用户类型查询（审批人升级到超管/财务时用）
func (r *UserRepository) ListByType(ctx context.Context, userType string) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).Where("type = ?", userType).Find(&users).Error
	return users, err
}

// ListByAccessLevelIDs 查询挂在指定权限等级上的用户
func (r *UserRepository) ListByAccessLevelIDs(ctx context.Context, accessLevelIDs []string) ([]*model.User, error) {
	if len(accessLevelIDs) == 0 {
		return nil, nil
	}
	var users []*model.User
	err := r.db.WithContext(ctx).Where("access_level_id IN ?", accessLevelIDs).Find(&users).Error
	return users, err
}

// UpdatePassword 更新密码哈希，本工作流对用户表唯一的写操作
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
