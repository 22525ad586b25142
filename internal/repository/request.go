package repository

import (
	"context"

	"gorm.io/gorm"

	"shareit/internal/models"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Get(ctx context.Context, id uint) (*models.Request, error) {
	var req models.Request
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) ListByUser(ctx context.Context, userID uint) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ListOthers returns requests created by everyone except userID, newest first.
func (r *RequestRepository) ListOthers(ctx context.Context, userID uint, offset, limit int) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Where("user_id <> ?", userID).
		Order("created DESC").
		Offset(offset).Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) Save(ctx context.Context, req *models.Request) error {
	return r.db.WithContext(ctx).Save(req).Error
}
