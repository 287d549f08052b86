package plan_models

// TravelPrefs is the validated form of what the traveler asked for. The
// controller validates the loose request shape once at the boundary; the
// pipeline never re-checks fields.
type TravelPrefs struct {
	Destination    string
	DestCenter     Coordinates
	NumDays        int
	GroupType      string // solo|couple|family|friends
	PreferredTypes []string
	// PreferenceDepth biases categories the traveler feels strongly about,
	// positive or negative. Bounded to [-4,+4] when scored.
	PreferenceDepth map[string]int
	MustSeeNames    []string

	BudgetLevel     string // budget|mid|luxury
	MaxNightlyPrice *float64
	DiningTier      int // 1..4

	SelfCatering      bool
	HotelBreakfast    bool
	Constraints       TripConstraints
}

// SourceList is one provider's contribution to the candidate pool,
// provenance-tagged so dedup can prefer higher-authority copies.
type SourceList struct {
	Source     string
	Bookable   bool
	Activities []Activity
}

// FetchedData is everything the fetch stage could gather. Any source may be
// empty after a degraded fetch; the pipeline works with what survived.
type FetchedData struct {
	ActivitySources []SourceList
	Restaurants     []Restaurant
	// RestaurantBackfill is a secondary restaurant source used only to
	// repair missing coordinates via fuzzy name matching.
	RestaurantBackfill []Restaurant
	Hotels             []Accommodation
}
