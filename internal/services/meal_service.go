package services

import (
	"math"
	"sort"
	"strings"

	"tripweaver/internal/models/plan_models"
	"tripweaver/pkg/utils"
)

type MealServiceInterface interface {
	Assign(clusters []plan_models.ActivityCluster, restaurants, backfill []plan_models.Restaurant,
		prefs plan_models.TravelPrefs, hotelCoords *plan_models.Coordinates,
		used map[string]bool, audit *plan_models.PlanAudit) []plan_models.MealAssignment
}

type MealService struct{}

func NewMealService() MealServiceInterface {
	return &MealService{}
}

// Assign fills every (day, meal) slot in fixed order, proximity first. The
// used set is owned by the caller and threaded through explicitly, so two
// plans being generated at once never poison each other's uniqueness
// bookkeeping. A nil restaurant in the result is a deliberate choice
// (self-catering, hotel breakfast, or nothing edible in range), never a
// placeholder.
func (s *MealService) Assign(clusters []plan_models.ActivityCluster, restaurants, backfill []plan_models.Restaurant,
	prefs plan_models.TravelPrefs, hotelCoords *plan_models.Coordinates,
	used map[string]bool, audit *plan_models.PlanAudit) []plan_models.MealAssignment {

	if used == nil {
		used = make(map[string]bool)
	}

	pool := mergeRestaurantSources(restaurants, backfill)
	pool = s.filterByDiningBudget(pool, prefs.DiningTier, audit)

	ordered := make([]plan_models.ActivityCluster, len(clusters))
	copy(ordered, clusters)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Day < ordered[j].Day })

	var assignments []plan_models.MealAssignment
	for _, cluster := range ordered {
		for _, meal := range plan_models.AllMealTypes {
			assignments = append(assignments, s.assignSlot(cluster, meal, pool, prefs, hotelCoords, used, audit))
		}
	}
	return assignments
}

func (s *MealService) assignSlot(cluster plan_models.ActivityCluster, meal plan_models.MealType,
	pool []plan_models.Restaurant, prefs plan_models.TravelPrefs, hotelCoords *plan_models.Coordinates,
	used map[string]bool, audit *plan_models.PlanAudit) plan_models.MealAssignment {

	ref := s.referenceCoordinate(cluster, meal, hotelCoords)
	assignment := plan_models.MealAssignment{Day: cluster.Day, Meal: meal, Reference: ref}

	if prefs.SelfCatering {
		return assignment
	}
	if meal == plan_models.MealBreakfast && prefs.HotelBreakfast {
		return assignment
	}

	shortlist := s.shortlistCandidates(pool, meal, ref, used)
	if len(shortlist) == 0 {
		// Before giving up, check whether uniqueness is the only blocker.
		relaxed := s.shortlistCandidates(pool, meal, ref, nil)
		if len(relaxed) == 0 {
			return assignment // nothing edible in range; slot stays null
		}
		audit.Add(plan_models.WarnUniquenessRelaxed, "",
			"day %d %s: all restaurants in range already used, reusing", cluster.Day, meal)
		shortlist = relaxed
	}

	picks := pickDiverseTrio(shortlist)
	chosen := picks[0].restaurant
	assignment.Restaurant = &chosen
	assignment.DistanceKm = picks[0].distanceKm
	for _, alt := range picks[1:] {
		assignment.Alternatives = append(assignment.Alternatives, alt.restaurant)
	}
	used[chosen.ID] = true
	return assignment
}

// referenceCoordinate is where the traveler will actually be around this
// meal: the hotel at breakfast, the day's geographic heart at lunch, and a
// blend of the last activity and the hotel at dinner.
func (s *MealService) referenceCoordinate(cluster plan_models.ActivityCluster, meal plan_models.MealType, hotelCoords *plan_models.Coordinates) plan_models.Coordinates {
	switch meal {
	case plan_models.MealBreakfast:
		if hotelCoords != nil && hotelCoords.IsValid() {
			return *hotelCoords
		}
		return cluster.Centroid
	case plan_models.MealLunch:
		if nearest := nearestActivityToCentroid(cluster); nearest != nil {
			return nearest.Coords
		}
		return cluster.Centroid
	default: // dinner
		last := lastActivityCoords(cluster)
		if last == nil {
			if hotelCoords != nil && hotelCoords.IsValid() {
				return *hotelCoords
			}
			return cluster.Centroid
		}
		if hotelCoords == nil || !hotelCoords.IsValid() {
			return *last
		}
		return plan_models.Coordinates{
			Lat: last.Lat*0.6 + hotelCoords.Lat*0.4,
			Lng: last.Lng*0.6 + hotelCoords.Lng*0.4,
		}
	}
}

type mealCandidate struct {
	restaurant plan_models.Restaurant
	distanceKm float64
	score      float64
}

// shortlistCandidates evaluates the pool within three escalating radius
// bands and stops at the first band that yields three options. Beyond the
// absolute band a restaurant is out regardless of quality. Passing used == nil
// disables the uniqueness filter (the explicit pool-exhaustion relaxation).
func (s *MealService) shortlistCandidates(pool []plan_models.Restaurant, meal plan_models.MealType,
	ref plan_models.Coordinates, used map[string]bool) []mealCandidate {

	bands := mealRadiusBands[string(meal)]
	var shortlist []mealCandidate

	for _, radius := range []float64{bands.IdealKm, bands.HardKm, bands.AbsoluteKm} {
		shortlist = shortlist[:0]
		for _, r := range pool {
			if used != nil && used[r.ID] {
				continue
			}
			if !r.Coords.IsValid() || !cuisineFitsMeal(r, meal) {
				continue
			}
			d := utils.HaversineKm(r.Coords, ref)
			if d > radius {
				continue
			}
			shortlist = append(shortlist, mealCandidate{
				restaurant: r,
				distanceKm: d,
				score:      mealScore(r, d, bands),
			})
		}
		if len(shortlist) >= 3 {
			break
		}
	}

	sort.SliceStable(shortlist, func(i, j int) bool {
		if shortlist[i].score != shortlist[j].score {
			return shortlist[i].score > shortlist[j].score
		}
		return shortlist[i].restaurant.ID < shortlist[j].restaurant.ID
	})
	return shortlist
}

// mealScore is quality minus a distance penalty that steepens sharply once
// the candidate leaves the ideal radius.
func mealScore(r plan_models.Restaurant, distKm float64, bands mealRadius) float64 {
	quality := r.Rating*2 + math.Log10(float64(r.ReviewCount)+1)

	penalty := 0.0
	switch {
	case distKm <= bands.IdealKm:
		penalty = distKm * 2
	case distKm <= bands.HardKm:
		penalty = bands.IdealKm*2 + (distKm-bands.IdealKm)*8
	default:
		penalty = bands.IdealKm*2 + (bands.HardKm-bands.IdealKm)*8 + (distKm-bands.HardKm)*20
	}
	return quality - penalty
}

// pickDiverseTrio returns 1-3 candidates, best first. When the shortlist
// supports it, the trio mixes one locally-authentic cuisine with two
// distinct international ones; otherwise it is simply best-by-score.
func pickDiverseTrio(shortlist []mealCandidate) []mealCandidate {
	if len(shortlist) <= 1 {
		return shortlist
	}

	picks := []mealCandidate{shortlist[0]}
	seenCuisines := map[string]bool{primaryCuisine(shortlist[0].restaurant): true}
	haveLocal := isLocalCuisine(shortlist[0].restaurant)

	for _, c := range shortlist[1:] {
		if len(picks) == 3 {
			break
		}
		cuisine := primaryCuisine(c.restaurant)
		if seenCuisines[cuisine] {
			continue
		}
		if !haveLocal && len(picks) == 2 && !isLocalCuisine(c.restaurant) {
			// Hold the last slot for a local option if one exists further
			// down the shortlist.
			if localBelow(shortlist, c) {
				continue
			}
		}
		picks = append(picks, c)
		seenCuisines[cuisine] = true
		haveLocal = haveLocal || isLocalCuisine(c.restaurant)
	}

	// Backfill by score when cuisine diversity could not fill three slots.
	for _, c := range shortlist[1:] {
		if len(picks) == 3 {
			break
		}
		if !containsCandidate(picks, c.restaurant.ID) {
			picks = append(picks, c)
		}
	}
	return picks
}

func localBelow(shortlist []mealCandidate, after mealCandidate) bool {
	seen := false
	for _, c := range shortlist {
		if c.restaurant.ID == after.restaurant.ID {
			seen = true
			continue
		}
		if seen && isLocalCuisine(c.restaurant) {
			return true
		}
	}
	return false
}

func containsCandidate(picks []mealCandidate, id string) bool {
	for _, p := range picks {
		if p.restaurant.ID == id {
			return true
		}
	}
	return false
}

func cuisineFitsMeal(r plan_models.Restaurant, meal plan_models.MealType) bool {
	excluded := cuisineExclusionsByMeal[string(meal)]
	for _, cuisine := range r.Cuisines {
		if containsAnyKeyword(cuisine, excluded) {
			return false
		}
	}
	return true
}

func primaryCuisine(r plan_models.Restaurant) string {
	if len(r.Cuisines) == 0 {
		return "unknown"
	}
	return strings.ToLower(r.Cuisines[0])
}

func isLocalCuisine(r plan_models.Restaurant) bool {
	for _, cuisine := range r.Cuisines {
		if containsAnyKeyword(cuisine, localCuisineKeywords) {
			return true
		}
	}
	return false
}

// filterByDiningBudget keeps restaurants within one price tier of the
// traveler's, falling back to the whole pool when the filter starves it.
func (s *MealService) filterByDiningBudget(pool []plan_models.Restaurant, tier int, audit *plan_models.PlanAudit) []plan_models.Restaurant {
	if tier < 1 || tier > 4 {
		return pool
	}
	var out []plan_models.Restaurant
	for _, r := range pool {
		if r.PriceTier == 0 || absInt(r.PriceTier-tier) <= 1 {
			out = append(out, r)
		}
	}
	if len(out) < minRestaurantsAfterBudgetFilter {
		audit.Add(plan_models.WarnBudgetRelaxed, "",
			"only %d restaurants within budget tier %d±1, using the full pool", len(out), tier)
		return pool
	}
	return out
}

// mergeRestaurantSources folds the secondary source into the primary one.
// An exact or fuzzy name match repairs missing coordinates on the primary
// record; genuinely new places are appended. Coordinates are only ever
// copied from a real record, never synthesized.
func mergeRestaurantSources(primary, backfill []plan_models.Restaurant) []plan_models.Restaurant {
	merged := make([]plan_models.Restaurant, len(primary))
	copy(merged, primary)

	for _, b := range backfill {
		matched := false
		for i := range merged {
			if !restaurantNamesMatch(merged[i].Name, b.Name) {
				continue
			}
			matched = true
			if !merged[i].Coords.IsValid() && b.Coords.IsValid() {
				merged[i].Coords = b.Coords
			}
			if merged[i].PriceTier == 0 {
				merged[i].PriceTier = b.PriceTier
			}
			if len(merged[i].Cuisines) == 0 {
				merged[i].Cuisines = b.Cuisines
			}
			break
		}
		if !matched {
			merged = append(merged, b)
		}
	}
	return merged
}

func restaurantNamesMatch(a, b string) bool {
	na := normalizeRestaurantName(a)
	nb := normalizeRestaurantName(b)
	if na == nb {
		return true
	}
	if len(na) >= fuzzyNameMatchMinLen && len(nb) >= fuzzyNameMatchMinLen {
		return strings.Contains(na, nb) || strings.Contains(nb, na)
	}
	return false
}

func normalizeRestaurantName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	var sb strings.Builder
	for _, r := range lower {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ' {
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func nearestActivityToCentroid(cluster plan_models.ActivityCluster) *plan_models.ScoredActivity {
	var nearest *plan_models.ScoredActivity
	best := 0.0
	for i := range cluster.Activities {
		d := utils.HaversineKm(cluster.Activities[i].Coords, cluster.Centroid)
		if nearest == nil || d < best {
			nearest = &cluster.Activities[i]
			best = d
		}
	}
	return nearest
}

func lastActivityCoords(cluster plan_models.ActivityCluster) *plan_models.Coordinates {
	if len(cluster.Activities) == 0 {
		return nil
	}
	return &cluster.Activities[len(cluster.Activities)-1].Coords
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
