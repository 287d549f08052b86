package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tripweaver/internal/models/db_models"
	"tripweaver/internal/models/plan_models"
	"tripweaver/internal/repositories"
	"tripweaver/pkg/utils"
)

const (
	fetchSourceTimeout = 5 * time.Second

	catalogPoiLimit   = 200
	semanticPoiLimit  = 30
	restaurantLimit   = 150
	hotelListingLimit = 100
)

type FetchServiceInterface interface {
	// FetchAll gathers every raw input the pipeline needs. A failed source
	// degrades to an empty list with a warning; the only hard error is a
	// cancelled context.
	FetchAll(ctx context.Context, prefs plan_models.TravelPrefs, audit *plan_models.PlanAudit) (plan_models.FetchedData, error)
}

type fetchService struct {
	poiRepo        repositories.POIRepository
	embeddingRepo  repositories.PoiEmbeddingRepository
	restaurantRepo repositories.RestaurantRepository
	hotelRepo      repositories.HotelRepository
	aiClient       utils.AIClientInterface
}

func NewFetchService(
	poiRepo repositories.POIRepository,
	embeddingRepo repositories.PoiEmbeddingRepository,
	restaurantRepo repositories.RestaurantRepository,
	hotelRepo repositories.HotelRepository,
	aiClient utils.AIClientInterface,
) FetchServiceInterface {
	return &fetchService{
		poiRepo:        poiRepo,
		embeddingRepo:  embeddingRepo,
		restaurantRepo: restaurantRepo,
		hotelRepo:      hotelRepo,
		aiClient:       aiClient,
	}
}

func (s *fetchService) FetchAll(ctx context.Context, prefs plan_models.TravelPrefs, audit *plan_models.PlanAudit) (plan_models.FetchedData, error) {
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		data plan_models.FetchedData
	)

	run := func(source string, fn func(ctx context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			srcCtx, cancel := context.WithTimeout(ctx, fetchSourceTimeout)
			defer cancel()
			if err := fn(srcCtx); err != nil {
				log.Printf("fetch source %s failed: %v", source, err)
				mu.Lock()
				audit.Add(plan_models.WarnSourceFailed, "", "source %s unavailable, continuing without it", source)
				mu.Unlock()
			}
		}()
	}

	run("must_see", func(ctx context.Context) error {
		if len(prefs.MustSeeNames) == 0 {
			return nil
		}
		pois, err := s.poiRepo.FindByNames(ctx, prefs.MustSeeNames)
		if err != nil {
			return err
		}
		list := s.toSourceList("must_see", pois, true)
		mu.Lock()
		// Must-see sources go first so dedup keeps their flag authoritative.
		data.ActivitySources = append([]plan_models.SourceList{list}, data.ActivitySources...)
		s.reportUnresolvedMustSees(prefs.MustSeeNames, pois, audit)
		mu.Unlock()
		return nil
	})

	run("catalog", func(ctx context.Context) error {
		pois, err := s.poiRepo.ListByDestination(ctx, prefs.Destination, catalogPoiLimit)
		if err != nil {
			return err
		}
		list := s.toSourceList("catalog", pois, false)
		mu.Lock()
		data.ActivitySources = append(data.ActivitySources, list)
		mu.Unlock()
		return nil
	})

	run("preference_search", func(ctx context.Context) error {
		pois, err := s.fetchByPreferences(ctx, prefs)
		if err != nil {
			return err
		}
		if len(pois) == 0 {
			return nil
		}
		list := s.toSourceList("preference_search", pois, false)
		mu.Lock()
		data.ActivitySources = append(data.ActivitySources, list)
		mu.Unlock()
		return nil
	})

	run("restaurants", func(ctx context.Context) error {
		rows, err := s.restaurantRepo.ListBySource(ctx, prefs.Destination, "primary", restaurantLimit)
		if err != nil {
			return err
		}
		mu.Lock()
		data.Restaurants = toRestaurants(rows)
		mu.Unlock()
		return nil
	})

	run("restaurant_backfill", func(ctx context.Context) error {
		rows, err := s.restaurantRepo.ListBySource(ctx, prefs.Destination, "backfill", restaurantLimit)
		if err != nil {
			return err
		}
		mu.Lock()
		data.RestaurantBackfill = toRestaurants(rows)
		mu.Unlock()
		return nil
	})

	run("hotels", func(ctx context.Context) error {
		rows, err := s.hotelRepo.ListUnderPrice(ctx, prefs.Destination, 0, hotelListingLimit)
		if err != nil {
			return err
		}
		mu.Lock()
		data.Hotels = toAccommodations(rows)
		mu.Unlock()
		return nil
	})

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return plan_models.FetchedData{}, err
	}
	return data, nil
}

// fetchByPreferences turns the traveler's preferred categories into an
// embedding query and pulls semantically close POIs, widening the pool
// beyond exact category matches.
func (s *fetchService) fetchByPreferences(ctx context.Context, prefs plan_models.TravelPrefs) ([]db_models.POI, error) {
	if len(prefs.PreferredTypes) == 0 {
		return nil, nil
	}

	query := prefs.Destination + " " + strings.Join(prefs.PreferredTypes, " ")
	vector, err := s.aiClient.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	embeddings, err := s.embeddingRepo.ListByVector(vector, semanticPoiLimit)
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(embeddings))
	for _, e := range embeddings {
		ids = append(ids, e.PoiID)
	}
	pois, err := s.poiRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// The vector index is destination-agnostic; drop anything that leaked in
	// from another city.
	filtered := pois[:0]
	for _, p := range pois {
		if p.Destination == "" || strings.EqualFold(p.Destination, prefs.Destination) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *fetchService) toSourceList(source string, pois []db_models.POI, forceMustSee bool) plan_models.SourceList {
	list := plan_models.SourceList{Source: source}
	for _, p := range pois {
		a := toActivity(p)
		a.Source = source
		if forceMustSee {
			a.MustSee = true
		}
		if p.Bookable {
			list.Bookable = true
		}
		list.Activities = append(list.Activities, a)
	}
	return list
}

func (s *fetchService) reportUnresolvedMustSees(names []string, found []db_models.POI, audit *plan_models.PlanAudit) {
	resolved := make(map[string]bool, len(found))
	for _, p := range found {
		resolved[strings.ToLower(strings.TrimSpace(p.Name))] = true
	}
	for _, n := range names {
		if !resolved[strings.ToLower(strings.TrimSpace(n))] {
			audit.Add(plan_models.WarnMustSeeUnplaced, "", "must-see %q not found in catalog", n)
		}
	}
}

func toActivity(p db_models.POI) plan_models.Activity {
	return plan_models.Activity{
		ID:              p.ID.String(),
		Name:            p.Name,
		Coords:          plan_models.Coordinates{Lat: p.Latitude, Lng: p.Longitude},
		Category:        p.Category,
		DurationMinutes: p.DurationMinutes,
		EstimatedCost:   p.EstimatedCost,
		Rating:          p.Rating,
		ReviewCount:     p.ReviewCount,
		MustSee:         p.MustSee,
		Reliability:     plan_models.Reliability(p.Reliability),
		Source:          p.Source,
	}
}

func toRestaurants(rows []db_models.Restaurant) []plan_models.Restaurant {
	out := make([]plan_models.Restaurant, 0, len(rows))
	for _, r := range rows {
		out = append(out, plan_models.Restaurant{
			ID:          r.ID.String(),
			Name:        r.Name,
			Coords:      plan_models.Coordinates{Lat: r.Latitude, Lng: r.Longitude},
			Rating:      r.Rating,
			ReviewCount: r.ReviewCount,
			PriceTier:   r.PriceTier,
			Cuisines:    r.Cuisines,
			Source:      r.Source,
		})
	}
	return out
}

func toAccommodations(rows []db_models.Hotel) []plan_models.Accommodation {
	out := make([]plan_models.Accommodation, 0, len(rows))
	for _, h := range rows {
		out = append(out, plan_models.Accommodation{
			ID:           h.ID.String(),
			Name:         h.Name,
			Coords:       plan_models.Coordinates{Lat: h.Latitude, Lng: h.Longitude},
			Rating:       h.Rating,
			NightlyPrice: h.NightlyPrice,
			Currency:     h.Currency,
		})
	}
	return out
}
