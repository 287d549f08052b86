package services

import (
	"math"
	"sort"

	"tripweaver/internal/models/plan_models"
	"tripweaver/pkg/utils"
)

type HotelServiceInterface interface {
	Select(clusters []plan_models.ActivityCluster, hotels []plan_models.Accommodation, budgetLevel string, maxPerNight *float64) *plan_models.Accommodation
}

type HotelService struct{}

func NewHotelService() HotelServiceInterface {
	return &HotelService{}
}

// Select picks the one accommodation for the whole trip: close to the
// activity barycenter first, rating second, budget a soft constraint. The
// function is pure; identical inputs always return the same hotel.
func (s *HotelService) Select(clusters []plan_models.ActivityCluster, hotels []plan_models.Accommodation, budgetLevel string, maxPerNight *float64) *plan_models.Accommodation {
	candidates := make([]plan_models.Accommodation, 0, len(hotels))
	for _, h := range hotels {
		if !h.Coords.IsValid() {
			continue
		}
		h.Rating = NormalizeHotelRating(h.Rating)
		candidates = append(candidates, h)
	}
	if len(candidates) == 0 {
		return nil
	}

	anchor, ok := activityBarycenter(clusters)
	if !ok {
		// Nothing to be near: fall back to the best-rated hotel.
		best := candidates[0]
		for _, h := range candidates[1:] {
			if h.Rating > best.Rating || (h.Rating == best.Rating && h.ID < best.ID) {
				best = h
			}
		}
		return &best
	}

	nightlyBudget := nightlyBudgetFor(budgetLevel, maxPerNight)
	affordable := filterByBudget(candidates, nightlyBudget)
	if len(affordable) < 3 {
		affordable = cheapestN(candidates, hotelRelaxCheapestN)
	}

	banded := narrowByDistance(affordable, anchor)

	best := -1
	bestScore := 0.0
	for i, h := range banded {
		score := hotelScore(h, anchor, nightlyBudget)
		if best == -1 || score < bestScore ||
			(score == bestScore && h.ID < banded[best].ID) {
			best = i
			bestScore = score
		}
	}
	if best == -1 {
		return nil
	}
	chosen := banded[best]
	return &chosen
}

// hotelScore is distance-dominant: distance raised to a super-linear power,
// divided by a bounded rating boost, plus a penalty proportional to how far
// the nightly price exceeds budget. Lower wins.
func hotelScore(h plan_models.Accommodation, anchor plan_models.Coordinates, nightlyBudget float64) float64 {
	distKm := utils.HaversineKm(h.Coords, anchor)
	ratingBoost := utils.Clamp(1+h.Rating/10, 1, 2)
	score := math.Pow(distKm, hotelDistanceExponent) / ratingBoost

	if nightlyBudget > 0 && h.NightlyPrice > nightlyBudget {
		score += hotelOverBudgetWeight * (h.NightlyPrice - nightlyBudget) / nightlyBudget
	}
	return score
}

// narrowByDistance widens the candidate ring only as tighter bands fail to
// yield enough options, so one distant but acceptable hotel cannot mask a
// close cluster of choices.
func narrowByDistance(hotels []plan_models.Accommodation, anchor plan_models.Coordinates) []plan_models.Accommodation {
	for _, bandKm := range hotelDistanceBandsKm {
		var within []plan_models.Accommodation
		for _, h := range hotels {
			if utils.HaversineKm(h.Coords, anchor) <= bandKm {
				within = append(within, h)
			}
		}
		if len(within) >= hotelMinBandCandidates {
			return within
		}
	}

	// Last band: the nearest half of all candidates.
	sorted := make([]plan_models.Accommodation, len(hotels))
	copy(sorted, hotels)
	sort.SliceStable(sorted, func(i, j int) bool {
		di := utils.HaversineKm(sorted[i].Coords, anchor)
		dj := utils.HaversineKm(sorted[j].Coords, anchor)
		if di != dj {
			return di < dj
		}
		return sorted[i].ID < sorted[j].ID
	})
	half := (len(sorted) + 1) / 2
	if half < 1 {
		half = 1
	}
	return sorted[:half]
}

func filterByBudget(hotels []plan_models.Accommodation, nightlyBudget float64) []plan_models.Accommodation {
	if nightlyBudget <= 0 {
		return hotels
	}
	limit := nightlyBudget * (1 + hotelBudgetTolerance)
	var out []plan_models.Accommodation
	for _, h := range hotels {
		if h.NightlyPrice <= limit {
			out = append(out, h)
		}
	}
	return out
}

func cheapestN(hotels []plan_models.Accommodation, n int) []plan_models.Accommodation {
	sorted := make([]plan_models.Accommodation, len(hotels))
	copy(sorted, hotels)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].NightlyPrice != sorted[j].NightlyPrice {
			return sorted[i].NightlyPrice < sorted[j].NightlyPrice
		}
		return sorted[i].ID < sorted[j].ID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func nightlyBudgetFor(budgetLevel string, maxPerNight *float64) float64 {
	if maxPerNight != nil && *maxPerNight > 0 {
		return *maxPerNight
	}
	if price, ok := nightlyPriceByBudgetLevel[budgetLevel]; ok {
		return price
	}
	return nightlyPriceByBudgetLevel["mid"]
}

// NormalizeHotelRating maps mixed-scale provider ratings onto 0..10: values
// at or below 5 are assumed to be a 5-point scale and doubled.
func NormalizeHotelRating(rating float64) float64 {
	if rating <= 5 {
		return rating * 2
	}
	return math.Min(rating, 10)
}

func activityBarycenter(clusters []plan_models.ActivityCluster) (plan_models.Coordinates, bool) {
	var coords []plan_models.Coordinates
	for _, c := range clusters {
		for _, a := range c.Activities {
			coords = append(coords, a.Coords)
		}
	}
	return utils.Barycenter(coords)
}
