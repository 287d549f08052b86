package response_models

import "tripweaver/internal/models/plan_models"

type ItinerarySummary struct {
	ID          string `json:"id"`
	Destination string `json:"destination"`
	NumDays     int    `json:"num_days"`
	CreatedAt   string `json:"created_at"`
}

type SavedItinerary struct {
	ID          string                   `json:"id"`
	Destination string                   `json:"destination"`
	NumDays     int                      `json:"num_days"`
	CreatedAt   string                   `json:"created_at"`
	Plan        plan_models.BalancedPlan `json:"plan"`
}
