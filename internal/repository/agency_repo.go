package repository

import (
	"context"
	"errors"

	"attractionhub/internal/model"

	"gorm.io/gorm"
)

var ErrAgencyNotFound = errors.New("agency not found")

type AgencyRepository struct {
	db *gorm.DB
}

func NewAgencyRepository(db *gorm.DB) *AgencyRepository {
	return &AgencyRepository{db: db}
}

func (r *AgencyRepository) GetByID(ctx context.Context, id string) (*model.Agency, error) {
	var agency model.Agency
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&agency).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgencyNotFound
		}
		return nil, err
	}
	return &agency, nil
}
