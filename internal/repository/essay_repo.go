package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/cssprep-api/internal/models"
)

// EssayFilter narrows essay listings.
type EssayFilter struct {
	UserID   *uint
	Source   *string
	Page     int
	PageSize int
}

// EssayRepository exposes persistence helpers for evaluated essays.
type EssayRepository interface {
	Create(ctx context.Context, essay *models.Essay) error
	GetByID(ctx context.Context, id uint) (models.Essay, error)
	List(ctx context.Context, filter EssayFilter) ([]models.Essay, int64, error)
}

// NewEssayRepository constructs an essay repository.
func NewEssayRepository(db *gorm.DB) EssayRepository {
	return &essayRepository{db: db}
}

type essayRepository struct {
	db *gorm.DB
}

func (r *essayRepository) Create(ctx context.Context, essay *models.Essay) error {
	return r.db.WithContext(ctx).Create(essay).Error
}

func (r *essayRepository) GetByID(ctx context.Context, id uint) (models.Essay, error) {
	var essay models.Essay
	if err := r.db.WithContext(ctx).First(&essay, id).Error; err != nil {
		return models.Essay{}, err
	}
	return essay, nil
}

func (r *essayRepository) List(ctx context.Context, filter EssayFilter) ([]models.Essay, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Essay{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	var essays []models.Essay
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&essays).Error
	if err != nil {
		return nil, 0, err
	}

	return essays, total, nil
}
