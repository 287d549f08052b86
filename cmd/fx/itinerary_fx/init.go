package itinerary_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"tripweaver/internal/api/controllers"
	"tripweaver/internal/repositories"
	"tripweaver/internal/services"
)

var Module = fx.Provide(
	provideItineraryRepo,
	provideItineraryService,
	provideItineraryController)

func provideItineraryRepo(db *gorm.DB) repositories.ItineraryRepository {
	return repositories.NewItineraryRepository(db)
}

func provideItineraryService(
	fetcher services.FetchServiceInterface,
	pool services.PoolServiceInterface,
	clusterer services.ClusterServiceInterface,
	rebalancer services.RebalanceServiceInterface,
	hotels services.HotelServiceInterface,
	meals services.MealServiceInterface,
	theming services.ThemingServiceInterface,
	scheduler services.ScheduleServiceInterface,
	itineraryRepo repositories.ItineraryRepository,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(
		fetcher,
		pool,
		clusterer,
		rebalancer,
		hotels,
		meals,
		theming,
		scheduler,
		itineraryRepo,
	)
}

func provideItineraryController(itineraryService services.ItineraryServiceInterface) *controllers.ItineraryController {
	return controllers.NewItineraryController(itineraryService)
}
