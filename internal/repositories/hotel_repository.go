package repositories

import (
	"context"

	"gorm.io/gorm"

	"tripweaver/internal/models/db_models"
)

type HotelRepository interface {
	List(ctx context.Context, page, pageSize int) ([]db_models.Hotel, error)
	ListUnderPrice(ctx context.Context, destination string, maxNightly float64, limit int) ([]db_models.Hotel, error)
}

type hotelRepository struct {
	db *gorm.DB
}

func NewHotelRepository(db *gorm.DB) HotelRepository {
	return &hotelRepository{db: db}
}

func (r *hotelRepository) List(ctx context.Context, page, pageSize int) ([]db_models.Hotel, error) {
	var hotels []db_models.Hotel
	err := r.db.WithContext(ctx).
		Order("rating DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&hotels).Error
	if err != nil {
		return nil, err
	}
	return hotels, nil
}

func (r *hotelRepository) ListUnderPrice(ctx context.Context, destination string, maxNightly float64, limit int) ([]db_models.Hotel, error) {
	var hotels []db_models.Hotel
	q := r.db.WithContext(ctx).Order("nightly_price ASC").Limit(limit)
	if destination != "" {
		q = q.Where("destination = ?", destination)
	}
	if maxNightly > 0 {
		q = q.Where("nightly_price <= ?", maxNightly)
	}
	if err := q.Find(&hotels).Error; err != nil {
		return nil, err
	}
	return hotels, nil
}
