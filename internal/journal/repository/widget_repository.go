package repository

import (
	"context"

	"trading-journal/internal/entity"

	"gorm.io/gorm"
)

// WidgetRepository reads the seeded calculator widget configurations.
type WidgetRepository interface {
	FindAll(ctx context.Context) ([]entity.WidgetConfig, error)
}

// NewWidgetRepository creates a new GORM-based widget repository.
func NewWidgetRepository(db *gorm.DB) WidgetRepository {
	return &widgetRepository{db: db}
}

type widgetRepository struct {
	db *gorm.DB
}

func (r *widgetRepository) FindAll(ctx context.Context) ([]entity.WidgetConfig, error) {
	var widgets []entity.WidgetConfig
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&widgets).Error; err != nil {
		return nil, err
	}
	return widgets, nil
}
