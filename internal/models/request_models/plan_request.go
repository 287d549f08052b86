package request_models

import (
	"fmt"
	"strings"

	"tripweaver/internal/models/plan_models"
	"tripweaver/pkg/utils"
)

const (
	maxTripDays  = 14
	maxMustSees  = 10
	maxPrefTypes = 8
)

var validGroupTypes = map[string]bool{
	"solo": true, "couple": true, "family": true, "friends": true,
}

var validBudgetLevels = map[string]bool{
	"budget": true, "mid": true, "luxury": true,
}

var validTransportModes = map[string]bool{
	"walking": true, "transit": true, "driving": true,
}

// PlanRequest is the loose JSON shape clients send. It is validated exactly
// once, here; everything past the controller works with the clean
// TravelPrefs it produces.
type PlanRequest struct {
	Destination string  `json:"destination"`
	CenterLat   float64 `json:"center_lat"`
	CenterLng   float64 `json:"center_lng"`
	NumDays     int     `json:"num_days"`

	GroupType       string         `json:"group_type"`
	PreferredTypes  []string       `json:"preferred_types"`
	PreferenceDepth map[string]int `json:"preference_depth"`
	MustSeeNames    []string       `json:"must_see_names"`

	BudgetLevel     string   `json:"budget_level"`
	MaxNightlyPrice *float64 `json:"max_nightly_price"`
	DiningTier      int      `json:"dining_tier"`

	SelfCatering   bool `json:"self_catering"`
	HotelBreakfast bool `json:"hotel_breakfast"`

	ArrivalHour   *float64 `json:"arrival_hour"`
	DepartureHour *float64 `json:"departure_hour"`
	TransportMode string   `json:"transport_mode"`
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", utils.ErrInvalidPlanInput, fmt.Sprintf(format, args...))
}

// ToPrefs validates the request and produces the pipeline's input. Unknown
// enum values are rejected rather than defaulted so a typo never silently
// changes the plan.
func (r *PlanRequest) ToPrefs() (plan_models.TravelPrefs, error) {
	var prefs plan_models.TravelPrefs

	destination := strings.TrimSpace(r.Destination)
	if destination == "" {
		return prefs, invalid("destination is required")
	}

	center := plan_models.Coordinates{Lat: r.CenterLat, Lng: r.CenterLng}
	if !center.IsValid() {
		return prefs, invalid("center coordinates are required and must be valid")
	}

	if r.NumDays < 1 || r.NumDays > maxTripDays {
		return prefs, invalid("num_days must be between 1 and %d", maxTripDays)
	}

	groupType := strings.ToLower(strings.TrimSpace(r.GroupType))
	if groupType == "" {
		groupType = "solo"
	}
	if !validGroupTypes[groupType] {
		return prefs, invalid("group_type must be solo, couple, family or friends")
	}

	budgetLevel := strings.ToLower(strings.TrimSpace(r.BudgetLevel))
	if budgetLevel == "" {
		budgetLevel = "mid"
	}
	if !validBudgetLevels[budgetLevel] {
		return prefs, invalid("budget_level must be budget, mid or luxury")
	}

	if r.MaxNightlyPrice != nil && *r.MaxNightlyPrice <= 0 {
		return prefs, invalid("max_nightly_price must be positive")
	}

	diningTier := r.DiningTier
	if diningTier == 0 {
		diningTier = 2
	}
	if diningTier < 1 || diningTier > 4 {
		return prefs, invalid("dining_tier must be between 1 and 4")
	}

	if len(r.MustSeeNames) > maxMustSees {
		return prefs, invalid("at most %d must_see_names are allowed", maxMustSees)
	}
	if len(r.PreferredTypes) > maxPrefTypes {
		return prefs, invalid("at most %d preferred_types are allowed", maxPrefTypes)
	}

	if err := validateHour(r.ArrivalHour, "arrival_hour"); err != nil {
		return prefs, err
	}
	if err := validateHour(r.DepartureHour, "departure_hour"); err != nil {
		return prefs, err
	}

	mode := strings.ToLower(strings.TrimSpace(r.TransportMode))
	if mode == "" {
		mode = "walking"
	}
	if !validTransportModes[mode] {
		return prefs, invalid("transport_mode must be walking, transit or driving")
	}

	depth := make(map[string]int, len(r.PreferenceDepth))
	for category, weight := range r.PreferenceDepth {
		category = strings.ToLower(strings.TrimSpace(category))
		if category == "" {
			continue
		}
		if weight > 4 {
			weight = 4
		}
		if weight < -4 {
			weight = -4
		}
		depth[category] = weight
	}

	prefs = plan_models.TravelPrefs{
		Destination:     destination,
		DestCenter:      center,
		NumDays:         r.NumDays,
		GroupType:       groupType,
		PreferredTypes:  lowerAll(r.PreferredTypes),
		PreferenceDepth: depth,
		MustSeeNames:    trimAll(r.MustSeeNames),
		BudgetLevel:     budgetLevel,
		MaxNightlyPrice: r.MaxNightlyPrice,
		DiningTier:      diningTier,
		SelfCatering:    r.SelfCatering,
		HotelBreakfast:  r.HotelBreakfast,
		Constraints: plan_models.TripConstraints{
			NumDays:       r.NumDays,
			ArrivalHour:   r.ArrivalHour,
			DepartureHour: r.DepartureHour,
			TransportMode: mode,
		},
	}
	return prefs, nil
}

func validateHour(h *float64, field string) error {
	if h == nil {
		return nil
	}
	if *h < 0 || *h >= 24 {
		return invalid("%s must be within 0..24", field)
	}
	return nil
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
