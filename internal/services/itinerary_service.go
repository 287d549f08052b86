package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"tripweaver/internal/models/db_models"
	"tripweaver/internal/models/plan_models"
	"tripweaver/internal/models/response_models"
	"tripweaver/internal/repositories"
	"tripweaver/pkg/utils"
)

type ItineraryServiceInterface interface {
	// GeneratePlan runs the whole pipeline for one request. It never
	// persists anything; saving is a separate, authenticated call.
	GeneratePlan(ctx context.Context, prefs plan_models.TravelPrefs) (*plan_models.BalancedPlan, error)

	SavePlan(ctx context.Context, userID string, destination string, plan *plan_models.BalancedPlan) (uuid.UUID, error)
	GetPlan(ctx context.Context, id string) (*response_models.SavedItinerary, error)
	ListPlans(ctx context.Context, userID string, page, pageSize int) ([]response_models.ItinerarySummary, error)
}

type itineraryService struct {
	fetcher    FetchServiceInterface
	pool       PoolServiceInterface
	clusterer  ClusterServiceInterface
	rebalancer RebalanceServiceInterface
	hotels     HotelServiceInterface
	meals      MealServiceInterface
	theming    ThemingServiceInterface
	scheduler  ScheduleServiceInterface

	itineraryRepo repositories.ItineraryRepository
}

func NewItineraryService(
	fetcher FetchServiceInterface,
	pool PoolServiceInterface,
	clusterer ClusterServiceInterface,
	rebalancer RebalanceServiceInterface,
	hotels HotelServiceInterface,
	meals MealServiceInterface,
	theming ThemingServiceInterface,
	scheduler ScheduleServiceInterface,
	itineraryRepo repositories.ItineraryRepository,
) ItineraryServiceInterface {
	return &itineraryService{
		fetcher:       fetcher,
		pool:          pool,
		clusterer:     clusterer,
		rebalancer:    rebalancer,
		hotels:        hotels,
		meals:         meals,
		theming:       theming,
		scheduler:     scheduler,
		itineraryRepo: itineraryRepo,
	}
}

func (s *itineraryService) GeneratePlan(ctx context.Context, prefs plan_models.TravelPrefs) (*plan_models.BalancedPlan, error) {
	audit := plan_models.NewPlanAudit()

	data, err := s.fetcher.FetchAll(ctx, prefs, audit)
	if err != nil {
		return nil, err
	}

	pool := s.pool.BuildPool(data.ActivitySources, prefs, audit)
	if len(pool) == 0 {
		return nil, utils.ErrEmptyCandidates
	}

	clusters := s.clusterer.Cluster(pool, prefs.NumDays, prefs.DestCenter)
	clusters = s.rebalancer.Rebalance(clusters, prefs.Constraints, audit)

	hotel := s.hotels.Select(clusters, data.Hotels, prefs.BudgetLevel, prefs.MaxNightlyPrice)
	var hotelCoords *plan_models.Coordinates
	if hotel != nil {
		hotelCoords = &hotel.Coords
	}

	usedRestaurants := make(map[string]bool)
	meals := s.meals.Assign(clusters, data.Restaurants, data.RestaurantBackfill, prefs, hotelCoords, usedRestaurants, audit)

	themes, clusters := s.theming.ThemeDays(ctx, prefs.Destination, clusters, hotel, audit)

	days := s.scheduler.Assemble(ctx, clusters, meals, hotel, prefs.Constraints)
	for i := range days {
		days[i].Theme = themes[days[i].Day]
	}

	return &plan_models.BalancedPlan{
		Days:     days,
		Clusters: clusters,
		Meals:    meals,
		Hotel:    hotel,
		Warnings: audit.Warnings(),
	}, nil
}

func (s *itineraryService) SavePlan(ctx context.Context, userID string, destination string, plan *plan_models.BalancedPlan) (uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, utils.ErrInvalidPlanInput
	}

	payload, err := json.Marshal(plan)
	if err != nil {
		return uuid.Nil, utils.ErrInvalidPlanInput
	}

	row := &db_models.Itinerary{
		UserID:      uid,
		Destination: destination,
		NumDays:     len(plan.Days),
		Plan:        payload,
	}

	id, err := s.itineraryRepo.Create(ctx, row)
	if err != nil {
		log.Printf("failed to save itinerary: %v", err)
		return uuid.Nil, utils.ErrDatabaseError
	}
	return id, nil
}

func (s *itineraryService) GetPlan(ctx context.Context, id string) (*response_models.SavedItinerary, error) {
	row, err := s.itineraryRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("failed to load itinerary %s: %v", id, err)
		return nil, utils.ErrDatabaseError
	}
	if row == nil {
		return nil, utils.ErrItineraryNotFound
	}

	var plan plan_models.BalancedPlan
	if err := json.Unmarshal(row.Plan, &plan); err != nil {
		log.Printf("stored itinerary %s is unreadable: %v", id, err)
		return nil, utils.ErrDatabaseError
	}

	return &response_models.SavedItinerary{
		ID:          row.ID.String(),
		Destination: row.Destination,
		NumDays:     row.NumDays,
		CreatedAt:   utils.FormatUnixSeconds(row.CreatedAt),
		Plan:        plan,
	}, nil
}

func (s *itineraryService) ListPlans(ctx context.Context, userID string, page, pageSize int) ([]response_models.ItinerarySummary, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	rows, err := s.itineraryRepo.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		log.Printf("failed to list itineraries for %s: %v", userID, err)
		return nil, utils.ErrDatabaseError
	}

	summaries := make([]response_models.ItinerarySummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, response_models.ItinerarySummary{
			ID:          row.ID.String(),
			Destination: row.Destination,
			NumDays:     row.NumDays,
			CreatedAt:   utils.FormatUnixSeconds(row.CreatedAt),
		})
	}
	return summaries, nil
}
