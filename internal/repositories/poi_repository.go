package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripweaver/internal/models/db_models"
)

type POIRepository interface {
	CreatePoi(ctx context.Context, poi *db_models.POI) (uuid.UUID, error)

	List(ctx context.Context, page, pageSize int) ([]db_models.POI, error)
	ListByDestination(ctx context.Context, destination string, limit int) ([]db_models.POI, error)
	FindByNames(ctx context.Context, names []string) ([]db_models.POI, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.POI, error)
}

type poiRepository struct {
	db *gorm.DB
}

func NewPOIRepository(db *gorm.DB) POIRepository {
	return &poiRepository{db: db}
}

func (r *poiRepository) CreatePoi(ctx context.Context, poi *db_models.POI) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(poi).Error; err != nil {
		return uuid.Nil, err
	}
	return poi.ID, nil
}

func (r *poiRepository) List(ctx context.Context, page, pageSize int) ([]db_models.POI, error) {
	var pois []db_models.POI
	err := r.db.WithContext(ctx).
		Order("review_count DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&pois).Error
	if err != nil {
		return nil, err
	}
	return pois, nil
}

func (r *poiRepository) ListByDestination(ctx context.Context, destination string, limit int) ([]db_models.POI, error) {
	var pois []db_models.POI
	q := r.db.WithContext(ctx).Order("review_count DESC").Limit(limit)
	if destination != "" {
		q = q.Where("destination = ?", destination)
	}
	if err := q.Find(&pois).Error; err != nil {
		return nil, err
	}
	return pois, nil
}

// FindByNames resolves traveler-supplied must-see names case-insensitively.
// Missing names simply return no row; the caller decides how to degrade.
func (r *poiRepository) FindByNames(ctx context.Context, names []string) ([]db_models.POI, error) {
	if len(names) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(n)))
	}

	var pois []db_models.POI
	err := r.db.WithContext(ctx).
		Where("LOWER(name) IN ?", lowered).
		Find(&pois).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return pois, nil
}

func (r *poiRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.POI, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var pois []db_models.POI
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pois).Error; err != nil {
		return nil, err
	}
	return pois, nil
}
