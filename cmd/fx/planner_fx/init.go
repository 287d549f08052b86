package planner_fx

import (
	"go.uber.org/fx"

	"tripweaver/internal/repositories"
	"tripweaver/internal/services"
	"tripweaver/pkg/utils"
)

var Module = fx.Provide(
	providePoolService,
	provideClusterService,
	provideRebalanceService,
	provideHotelService,
	provideMealService,
	provideMatrixService,
	provideScheduleService,
	provideFetchService)

func providePoolService() services.PoolServiceInterface {
	return services.NewPoolService()
}

func provideClusterService() services.ClusterServiceInterface {
	return services.NewClusterService()
}

func provideRebalanceService() services.RebalanceServiceInterface {
	return services.NewRebalanceService()
}

func provideHotelService() services.HotelServiceInterface {
	return services.NewHotelService()
}

func provideMealService() services.MealServiceInterface {
	return services.NewMealService()
}

func provideMatrixService() services.DistanceMatrixService {
	return services.NewEstimatedMatrixService(services.NewInMemoryPairCache())
}

func provideScheduleService(
	rebalancer services.RebalanceServiceInterface,
	matrix services.DistanceMatrixService,
) services.ScheduleServiceInterface {
	return services.NewScheduleService(rebalancer, matrix)
}

func provideFetchService(
	poiRepo repositories.POIRepository,
	embeddingRepo repositories.PoiEmbeddingRepository,
	restaurantRepo repositories.RestaurantRepository,
	hotelRepo repositories.HotelRepository,
	aiClient utils.AIClientInterface,
) services.FetchServiceInterface {
	return services.NewFetchService(poiRepo, embeddingRepo, restaurantRepo, hotelRepo, aiClient)
}
