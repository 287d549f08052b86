package services

import "strings"

// All heuristic keyword tables and tuning constants live here, loaded once.
// The per-concern tables used to drift apart when copies lived next to the
// code that used them, so every classifier below reads from this file only.

// ---- pool building ----

const (
	dedupRadiusKm       = 0.1 // two records within 100m are the same place
	mustSeeScoreBonus   = 100.0
	verifiedScoreBonus  = 2.0
	generatedScorePenal = -2.0
	bookableScoreBonus  = 3.0
	prefMatchScoreBonus = 5.0
)

// Categories that never belong in an activity pool. Names containing an
// attraction keyword override the filter, so "Times Square" survives while a
// bare "square" entry does not.
var disallowedCategories = map[string]bool{
	"restaurant":  true,
	"cafe":        true,
	"food":        true,
	"gas_station": true,
	"lodging":     true,
	"hotel":       true,
	"street":      true,
	"square":      true,
	"route":       true,
}

var attractionKeywords = []string{
	"museum", "palace", "castle", "cathedral", "basilica", "temple", "pagoda",
	"tower", "bridge", "park", "garden", "gallery", "monument", "memorial",
	"fortress", "citadel", "opera", "aquarium", "zoo", "market", "observatory",
	"falls", "waterfall", "lake", "beach", "island",
}

// Outdoor venues close with daylight; the rebalancer keeps outdoor must-sees
// off days that start late.
var outdoorKeywords = []string{
	"park", "garden", "botanical", "lake", "beach", "falls", "waterfall",
	"mountain", "trail", "viewpoint", "island", "zoo", "gorge",
}

// Minimum plausible visit duration per category, minutes. Applied only to
// non-verified records.
var minDurationByCategory = map[string]int{
	"museum":    90,
	"gallery":   60,
	"palace":    90,
	"castle":    90,
	"park":      60,
	"garden":    45,
	"temple":    45,
	"church":    30,
	"monument":  30,
	"market":    60,
	"viewpoint": 30,
	"zoo":       120,
	"aquarium":  90,
}

const defaultMinDurationMinutes = 45

// Plausible per-activity cost bounds for non-verified records.
const (
	activityCostFloor   = 0.0
	activityCostCeiling = 150.0
)

// Group-fit keywords. The aggregate bonus/penalty per activity is clamped to
// [-groupFitCap, +groupFitCap] so no single heuristic dominates ordering.
const groupFitCap = 6.0

var groupFitKeywords = map[string]map[string]float64{
	"family": {
		"zoo": 3, "aquarium": 3, "park": 2, "playground": 3, "museum": 1,
		"nightlife": -4, "bar": -4, "club": -5, "casino": -5,
	},
	"couple": {
		"sunset": 2, "viewpoint": 2, "garden": 2, "cruise": 2, "wine": 2,
		"playground": -3, "arcade": -2,
	},
	"friends": {
		"nightlife": 3, "bar": 2, "market": 2, "adventure": 3, "hiking": 2,
	},
	"solo": {
		"museum": 2, "gallery": 2, "walking": 2, "viewpoint": 1,
	},
}

const preferenceDepthCap = 4.0

// ---- rebalancing ----

const (
	dayBaselineMinutes    = 720 // 12h of usable day
	dayTripBudgetMinutes  = 720
	dayTripRemoteKm       = 20.0
	mealOverheadMinutes   = 180 // ~3h across three meals
	travelOverheadMinutes = 45  // per-activity transfer + buffer share
	transferBufferHours   = 1.5
	dayStartHour          = 9.0
	dayEndHour            = 21.0
	lateStartHour         = 14.0
	heavyActivityMinutes  = 90
	maxHeavyPerDay        = 2
	phaseIterationCap     = 20
)

// ---- meal assignment ----

type mealRadius struct {
	IdealKm    float64
	HardKm     float64
	AbsoluteKm float64
}

// Escalating candidate bands per meal. Beyond AbsoluteKm a restaurant is
// excluded outright; there is no quality-only fallback.
var mealRadiusBands = map[string]mealRadius{
	"breakfast": {IdealKm: 0.4, HardKm: 0.8, AbsoluteKm: 1.2},
	"lunch":     {IdealKm: 0.5, HardKm: 0.9, AbsoluteKm: 1.5},
	"dinner":    {IdealKm: 0.5, HardKm: 0.9, AbsoluteKm: 1.2},
}

// Cuisines that do not fit a given meal slot.
var cuisineExclusionsByMeal = map[string][]string{
	"breakfast": {"steakhouse", "bbq", "barbecue", "fine dining", "seafood", "ramen"},
	"lunch":     {},
	"dinner":    {"bakery", "breakfast", "brunch", "coffee", "juice"},
}

// Cuisines considered locally authentic, used by the diversity preference
// when picking three candidates; anything else named counts as international.
var localCuisineKeywords = []string{
	"local", "traditional", "regional", "homestyle", "street food",
}

const (
	fuzzyNameMatchMinLen            = 4
	minRestaurantsAfterBudgetFilter = 3
)

// ---- hotel selection ----

const (
	hotelBudgetTolerance   = 0.30
	hotelRelaxCheapestN    = 10
	hotelMinBandCandidates = 2
	hotelDistanceExponent  = 2.2
	hotelOverBudgetWeight  = 4.0
)

var hotelDistanceBandsKm = []float64{5, 8, 12}

// Nominal nightly price per budget level, used when the traveler gives a
// level instead of an explicit cap.
var nightlyPriceByBudgetLevel = map[string]float64{
	"budget": 70,
	"mid":    140,
	"luxury": 300,
}

// ---- shared helpers ----

func containsAnyKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isOutdoorActivity(name, category string) bool {
	return containsAnyKeyword(name+" "+category, outdoorKeywords)
}
