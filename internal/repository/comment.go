package repository

import (
	"context"

	"gorm.io/gorm"

	"shareit/internal/models"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Save(ctx context.Context, c *models.Comment) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CommentRepository) ListByItem(ctx context.Context, itemID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("item_id = ?", itemID).
		Order("created DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepository) ListByItemIDs(ctx context.Context, itemIDs []uint) ([]models.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("item_id IN ?", itemIDs).
		Order("created DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
