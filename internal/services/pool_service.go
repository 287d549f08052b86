package services

import (
	"math"
	"sort"
	"strings"

	"tripweaver/internal/models/plan_models"
	"tripweaver/pkg/utils"
)

type PoolServiceInterface interface {
	BuildPool(sources []plan_models.SourceList, prefs plan_models.TravelPrefs, audit *plan_models.PlanAudit) []plan_models.ScoredActivity
}

type PoolService struct{}

func NewPoolService() PoolServiceInterface {
	return &PoolService{}
}

// BuildPool merges every source list into one deduplicated, scored and
// trimmed candidate pool. Must-see items are merged first so a duplicate from
// a lower-authority source can never displace them, and the must-see flag is
// OR-combined whenever two records collapse into one.
func (s *PoolService) BuildPool(sources []plan_models.SourceList, prefs plan_models.TravelPrefs, audit *plan_models.PlanAudit) []plan_models.ScoredActivity {
	merged := s.mergeSources(sources, prefs, audit)
	filtered := s.filterCategories(merged, audit)

	scored := make([]plan_models.ScoredActivity, 0, len(filtered))
	for _, a := range filtered {
		scored = append(scored, plan_models.ScoredActivity{
			Activity: a.Activity,
			Score:    s.scoreActivity(a, prefs),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})

	selected := s.selectTopCandidates(scored, prefs.NumDays)
	for i := range selected {
		s.fixDurationAndCost(&selected[i].Activity)
	}
	return selected
}

// pooledActivity carries the provenance facts scoring needs but the final
// Activity does not.
type pooledActivity struct {
	plan_models.Activity
	Bookable bool
}

func (s *PoolService) mergeSources(sources []plan_models.SourceList, prefs plan_models.TravelPrefs, audit *plan_models.PlanAudit) []pooledActivity {
	ordered := make([]plan_models.SourceList, 0, len(sources))
	for _, src := range sources {
		ordered = append(ordered, src)
	}
	// Must-see carrying sources go first so they win merge order.
	sort.SliceStable(ordered, func(i, j int) bool {
		return countMustSees(ordered[i]) > countMustSees(ordered[j])
	})

	mustSeeNames := make(map[string]bool, len(prefs.MustSeeNames))
	for _, n := range prefs.MustSeeNames {
		mustSeeNames[strings.ToLower(strings.TrimSpace(n))] = true
	}

	var pool []pooledActivity
	for _, src := range ordered {
		for _, a := range src.Activities {
			a.Source = src.Source
			if mustSeeNames[strings.ToLower(a.Name)] {
				a.MustSee = true
			}
			if !a.Coords.IsValid() {
				if a.MustSee {
					audit.Add(plan_models.WarnMustSeeUnplaced, a.ID,
						"must-see %q has no usable coordinates and cannot be scheduled", a.Name)
				} else {
					audit.Add(plan_models.WarnCoordsUnresolved, a.ID,
						"dropping %q: no usable coordinates", a.Name)
				}
				continue
			}
			pool = s.mergeOne(pool, pooledActivity{Activity: a, Bookable: src.Bookable})
		}
	}
	return pool
}

// mergeOne folds a candidate into the pool, collapsing it onto any existing
// record within the dedup radius. The record with more reviews survives; the
// must-see flag survives either way.
func (s *PoolService) mergeOne(pool []pooledActivity, next pooledActivity) []pooledActivity {
	for i, existing := range pool {
		if utils.HaversineKm(existing.Coords, next.Coords) > dedupRadiusKm {
			continue
		}
		mustSee := existing.MustSee || next.MustSee
		if next.ReviewCount > existing.ReviewCount {
			next.MustSee = mustSee
			pool[i] = next
		} else {
			pool[i].MustSee = mustSee
		}
		return pool
	}
	return append(pool, next)
}

func (s *PoolService) filterCategories(pool []pooledActivity, audit *plan_models.PlanAudit) []pooledActivity {
	out := pool[:0]
	for _, a := range pool {
		category := strings.ToLower(a.Category)
		if disallowedCategories[category] && !containsAnyKeyword(a.Name, attractionKeywords) {
			if a.MustSee {
				// A must-see is never silently dropped, whatever its category.
				out = append(out, a)
				continue
			}
			audit.Add(plan_models.WarnActivityDropped, a.ID,
				"filtered %q: category %q is not an attraction", a.Name, a.Category)
			continue
		}
		out = append(out, a)
	}
	return out
}

// scoreActivity composes the additive desirability score. Sub-terms are
// independent; clamps keep any single heuristic from dominating ordering.
func (s *PoolService) scoreActivity(a pooledActivity, prefs plan_models.TravelPrefs) float64 {
	score := 0.0
	if a.MustSee {
		score += mustSeeScoreBonus
	}

	score += math.Log10(float64(a.ReviewCount) + 1)
	score += a.Rating * 1.5

	for _, t := range prefs.PreferredTypes {
		if containsAnyKeyword(a.Category+" "+a.Name, []string{strings.ToLower(t)}) {
			score += prefMatchScoreBonus
			break
		}
	}

	if a.Bookable {
		score += bookableScoreBonus
	}

	switch a.Reliability {
	case plan_models.ReliabilityVerified:
		score += verifiedScoreBonus
	case plan_models.ReliabilityGenerated:
		score += generatedScorePenal
	}

	// Far activities cost more on short trips: the weight shrinks as the
	// trip grows, and the penalty is clamped so remoteness alone cannot
	// bury a strong candidate.
	if prefs.DestCenter.IsValid() {
		distKm := utils.HaversineKm(a.Coords, prefs.DestCenter)
		weight := 0.3 + 1.2/math.Max(1, float64(prefs.NumDays))
		score -= math.Min(distKm*weight, 15)
	}

	score += s.groupFitScore(a, prefs.GroupType)
	score += s.preferenceDepthScore(a, prefs.PreferenceDepth)
	return score
}

func (s *PoolService) groupFitScore(a pooledActivity, groupType string) float64 {
	table, ok := groupFitKeywords[strings.ToLower(groupType)]
	if !ok {
		return 0
	}
	text := strings.ToLower(a.Name + " " + a.Category)
	total := 0.0
	for kw, delta := range table {
		if strings.Contains(text, kw) {
			total += delta
		}
	}
	return utils.Clamp(total, -groupFitCap, groupFitCap)
}

func (s *PoolService) preferenceDepthScore(a pooledActivity, depth map[string]int) float64 {
	text := strings.ToLower(a.Name + " " + a.Category)
	total := 0.0
	for key, d := range depth {
		if strings.Contains(text, strings.ToLower(key)) {
			total += float64(d)
		}
	}
	return utils.Clamp(total, -preferenceDepthCap, preferenceDepthCap)
}

// selectTopCandidates keeps every must-see and fills the rest of the pool up
// to a target slightly above what the trip can show, leaving the rebalancer
// room to move items around.
func (s *PoolService) selectTopCandidates(scored []plan_models.ScoredActivity, numDays int) []plan_models.ScoredActivity {
	target := targetPoolSize(numDays)

	var selected []plan_models.ScoredActivity
	for _, a := range scored {
		if a.MustSee {
			selected = append(selected, a)
		}
	}
	for _, a := range scored {
		if len(selected) >= target {
			break
		}
		if !a.MustSee {
			selected = append(selected, a)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Score != selected[j].Score {
			return selected[i].Score > selected[j].Score
		}
		return selected[i].ID < selected[j].ID
	})
	return selected
}

func targetPoolSize(numDays int) int {
	if numDays < 1 {
		numDays = 1
	}
	return numDays*5 + 5
}

// fixDurationAndCost corrects implausible durations and costs on records we
// did not get from a verified source. Verified records are never overwritten.
func (s *PoolService) fixDurationAndCost(a *plan_models.Activity) {
	if a.Reliability == plan_models.ReliabilityVerified {
		return
	}

	minDuration := defaultMinDurationMinutes
	category := strings.ToLower(a.Category)
	for key, minutes := range minDurationByCategory {
		if strings.Contains(category, key) || strings.Contains(strings.ToLower(a.Name), key) {
			if minutes > minDuration {
				minDuration = minutes
			}
		}
	}
	if a.DurationMinutes < minDuration {
		a.DurationMinutes = minDuration
	}

	if a.EstimatedCost < activityCostFloor {
		a.EstimatedCost = activityCostFloor
	}
	if a.EstimatedCost > activityCostCeiling {
		a.EstimatedCost = activityCostCeiling
	}
}

func countMustSees(src plan_models.SourceList) int {
	n := 0
	for _, a := range src.Activities {
		if a.MustSee {
			n++
		}
	}
	return n
}
