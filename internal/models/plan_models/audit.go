package plan_models

import "fmt"

// Warning codes. Every degraded path in the pipeline is observable through
// one of these rather than a silent drop or a fabricated value.
const (
	WarnSourceFailed      = "source_failed"
	WarnActivityDropped   = "activity_dropped"
	WarnMustSeeUnplaced   = "must_see_unplaced"
	WarnUniquenessRelaxed = "restaurant_uniqueness_relaxed"
	WarnBudgetRelaxed     = "budget_filter_relaxed"
	WarnCoordsUnresolved  = "coords_unresolved"
	WarnThemingFallback   = "theming_fallback"
	WarnPhaseCapped       = "rebalance_phase_capped"
)

type PlanWarning struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	EntityID string `json:"entity_id,omitempty"`
}

// PlanAudit accumulates structured warnings while a single plan is built.
// It is threaded explicitly through the pipeline so concurrent plan
// generations never share state.
type PlanAudit struct {
	warnings []PlanWarning
}

func NewPlanAudit() *PlanAudit {
	return &PlanAudit{}
}

func (a *PlanAudit) Add(code, entityID, format string, args ...interface{}) {
	a.warnings = append(a.warnings, PlanWarning{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		EntityID: entityID,
	})
}

func (a *PlanAudit) Warnings() []PlanWarning {
	return a.warnings
}

// HasCode reports whether at least one warning with the given code was
// recorded. Used by tests and by callers that surface capacity failures.
func (a *PlanAudit) HasCode(code string) bool {
	for _, w := range a.warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
