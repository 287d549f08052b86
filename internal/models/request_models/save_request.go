package request_models

import "tripweaver/internal/models/plan_models"

// SaveItineraryRequest stores a previously generated plan under the
// authenticated user. The plan blob is taken as-is; it was produced by this
// service and is opaque to the save path.
type SaveItineraryRequest struct {
	Destination string                   `json:"destination"`
	Plan        plan_models.BalancedPlan `json:"plan"`
}
