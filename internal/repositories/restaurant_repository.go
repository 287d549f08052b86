package repositories

import (
	"context"

	"gorm.io/gorm"

	"tripweaver/internal/models/db_models"
)

type RestaurantRepository interface {
	List(ctx context.Context, page, pageSize int) ([]db_models.Restaurant, error)
	ListBySource(ctx context.Context, destination, source string, limit int) ([]db_models.Restaurant, error)
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) List(ctx context.Context, page, pageSize int) ([]db_models.Restaurant, error) {
	var restaurants []db_models.Restaurant
	err := r.db.WithContext(ctx).
		Order("review_count DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&restaurants).Error
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (r *restaurantRepository) ListBySource(ctx context.Context, destination, source string, limit int) ([]db_models.Restaurant, error) {
	var restaurants []db_models.Restaurant
	q := r.db.WithContext(ctx).Order("review_count DESC").Limit(limit)
	if destination != "" {
		q = q.Where("destination = ?", destination)
	}
	if source != "" {
		q = q.Where("source = ?", source)
	}
	if err := q.Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}
