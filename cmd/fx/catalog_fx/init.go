package catalog_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"tripweaver/internal/api/controllers"
	"tripweaver/internal/repositories"
	"tripweaver/internal/services"
)

var Module = fx.Provide(
	providePOIRepo,
	providePoiEmbeddingRepo,
	provideRestaurantRepo,
	provideHotelRepo,
	provideCatalogService,
	provideCatalogController)

func providePOIRepo(db *gorm.DB) repositories.POIRepository {
	return repositories.NewPOIRepository(db)
}

func providePoiEmbeddingRepo(db *gorm.DB) repositories.PoiEmbeddingRepository {
	return repositories.NewPoiEmbeddingRepository(db)
}

func provideRestaurantRepo(db *gorm.DB) repositories.RestaurantRepository {
	return repositories.NewRestaurantRepository(db)
}

func provideHotelRepo(db *gorm.DB) repositories.HotelRepository {
	return repositories.NewHotelRepository(db)
}

func provideCatalogService(
	poiRepo repositories.POIRepository,
	restaurantRepo repositories.RestaurantRepository,
	hotelRepo repositories.HotelRepository,
) services.CatalogServiceInterface {
	return services.NewCatalogService(poiRepo, restaurantRepo, hotelRepo)
}

func provideCatalogController(catalogService services.CatalogServiceInterface) *controllers.CatalogController {
	return controllers.NewCatalogController(catalogService)
}
