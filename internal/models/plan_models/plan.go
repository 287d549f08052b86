package plan_models

// Reliability tags how trustworthy the data behind an entity is. Verified
// entries come straight from a provider and are never corrected by the
// pipeline; estimated and generated entries may have durations and costs
// fixed up against the heuristic tables.
type Reliability string

const (
	ReliabilityVerified  Reliability = "verified"
	ReliabilityEstimated Reliability = "estimated"
	ReliabilityGenerated Reliability = "generated"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsValid rejects the null island and anything outside WGS84 ranges.
// Coordinates are never invented downstream, so an invalid coordinate here
// means the entity stays flagged rather than placed.
func (c Coordinates) IsValid() bool {
	if c.Lat == 0 && c.Lng == 0 {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

type Activity struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Coords          Coordinates `json:"coords"`
	Category        string      `json:"category"`
	DurationMinutes int         `json:"duration_minutes"`
	EstimatedCost   float64     `json:"estimated_cost"`
	Rating          float64     `json:"rating"`
	ReviewCount     int         `json:"review_count"`
	MustSee         bool        `json:"must_see"`
	Reliability     Reliability `json:"reliability"`
	Source          string      `json:"source"`
}

type ScoredActivity struct {
	Activity
	Score float64 `json:"score"`
}

// ActivityCluster is one itinerary day. It is created by the clusterer,
// mutated in place by the rebalancer, and read-only afterwards.
type ActivityCluster struct {
	Day        int              `json:"day"`
	Activities []ScoredActivity `json:"activities"`
	Centroid   Coordinates      `json:"centroid"`
	SpreadKm   float64          `json:"spread_km"`
}

type Restaurant struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Coords      Coordinates `json:"coords"`
	Rating      float64     `json:"rating"`
	ReviewCount int         `json:"review_count"`
	PriceTier   int         `json:"price_tier"` // 1..4
	Cuisines    []string    `json:"cuisines"`
	Source      string      `json:"source"`
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// AllMealTypes is the fixed assignment order.
var AllMealTypes = []MealType{MealBreakfast, MealLunch, MealDinner}

// MealAssignment binds one (day, meal) slot to at most one restaurant. A nil
// Restaurant encodes self-catering or a hotel breakfast, never a fabricated
// fallback entry.
type MealAssignment struct {
	Day          int          `json:"day"`
	Meal         MealType     `json:"meal"`
	Restaurant   *Restaurant  `json:"restaurant,omitempty"`
	Alternatives []Restaurant `json:"alternatives,omitempty"`
	Reference    Coordinates  `json:"reference"`
	DistanceKm   float64      `json:"distance_km"`
}

type Accommodation struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Coords       Coordinates `json:"coords"`
	Rating       float64     `json:"rating"` // normalized to 0..10
	NightlyPrice float64     `json:"nightly_price"`
	Currency     string      `json:"currency"`
}

// TripConstraints carries the hard timing facts the rebalancer needs.
// Arrival/departure hours are fractional local hours (e.g. 14.5 = 14:30);
// nil means no flight/ground constraint on that edge of the trip.
type TripConstraints struct {
	NumDays       int
	ArrivalHour   *float64
	DepartureHour *float64
	TransportMode string
}

// ScheduleItem is one timed block of a finished day.
type ScheduleItem struct {
	Kind       string      `json:"kind"` // activity|breakfast|lunch|dinner
	StartTime  string      `json:"start_time"`
	EndTime    string      `json:"end_time"`
	Title      string      `json:"title"`
	ActivityID string      `json:"activity_id,omitempty"`
	Coords     Coordinates `json:"coords"`
}

type DaySchedule struct {
	Day   int            `json:"day"`
	Theme string         `json:"theme,omitempty"`
	Items []ScheduleItem `json:"items"`
}

// BalancedPlan is the complete pipeline output: frozen clusters rendered as
// timed days, plus the meal and hotel selections and every degradation the
// pipeline recorded on the way.
type BalancedPlan struct {
	Days     []DaySchedule     `json:"days"`
	Clusters []ActivityCluster `json:"clusters"`
	Meals    []MealAssignment  `json:"meals"`
	Hotel    *Accommodation    `json:"hotel,omitempty"`
	Warnings []PlanWarning     `json:"warnings,omitempty"`
}

// ActivityIDs collects the IDs across all clusters, used to verify that the
// theming pass neither added nor removed activities.
func ActivityIDs(clusters []ActivityCluster) map[string]int {
	ids := make(map[string]int)
	for _, c := range clusters {
		for _, a := range c.Activities {
			ids[a.ID]++
		}
	}
	return ids
}
