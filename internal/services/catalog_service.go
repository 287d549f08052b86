package services

import (
	"context"
	"log"

	"tripweaver/internal/models/db_models"
	"tripweaver/internal/repositories"
	"tripweaver/pkg/utils"
)

// CatalogServiceInterface exposes the raw destination catalog for browsing
// and for operators checking what the planner has to work with.
type CatalogServiceInterface interface {
	ListPOIs(ctx context.Context, destination string, page, pageSize int) ([]db_models.POI, error)
	ListRestaurants(ctx context.Context, page, pageSize int) ([]db_models.Restaurant, error)
	ListHotels(ctx context.Context, page, pageSize int) ([]db_models.Hotel, error)
}

type catalogService struct {
	poiRepo        repositories.POIRepository
	restaurantRepo repositories.RestaurantRepository
	hotelRepo      repositories.HotelRepository
}

func NewCatalogService(
	poiRepo repositories.POIRepository,
	restaurantRepo repositories.RestaurantRepository,
	hotelRepo repositories.HotelRepository,
) CatalogServiceInterface {
	return &catalogService{
		poiRepo:        poiRepo,
		restaurantRepo: restaurantRepo,
		hotelRepo:      hotelRepo,
	}
}

func validatePaging(page, pageSize int) error {
	if page < 1 {
		return utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return utils.ErrInvalidPageSize
	}
	return nil
}

func (s *catalogService) ListPOIs(ctx context.Context, destination string, page, pageSize int) ([]db_models.POI, error) {
	if err := validatePaging(page, pageSize); err != nil {
		return nil, err
	}

	if destination != "" {
		pois, err := s.poiRepo.ListByDestination(ctx, destination, pageSize)
		if err != nil {
			log.Printf("failed to list POIs for %s: %v", destination, err)
			return nil, utils.ErrDatabaseError
		}
		return pois, nil
	}

	pois, err := s.poiRepo.List(ctx, page, pageSize)
	if err != nil {
		log.Printf("failed to list POIs: %v", err)
		return nil, utils.ErrDatabaseError
	}
	return pois, nil
}

func (s *catalogService) ListRestaurants(ctx context.Context, page, pageSize int) ([]db_models.Restaurant, error) {
	if err := validatePaging(page, pageSize); err != nil {
		return nil, err
	}
	restaurants, err := s.restaurantRepo.List(ctx, page, pageSize)
	if err != nil {
		log.Printf("failed to list restaurants: %v", err)
		return nil, utils.ErrDatabaseError
	}
	return restaurants, nil
}

func (s *catalogService) ListHotels(ctx context.Context, page, pageSize int) ([]db_models.Hotel, error) {
	if err := validatePaging(page, pageSize); err != nil {
		return nil, err
	}
	hotels, err := s.hotelRepo.List(ctx, page, pageSize)
	if err != nil {
		log.Printf("failed to list hotels: %v", err)
		return nil, utils.ErrDatabaseError
	}
	return hotels, nil
}
