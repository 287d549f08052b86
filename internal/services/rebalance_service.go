package services

import (
	"math"
	"sort"

	"tripweaver/internal/models/plan_models"
	"tripweaver/pkg/utils"
)

// DayBudget is the physical envelope of one itinerary day. DayTrip days keep
// a fixed large budget and are exempt from every capacity rule.
type DayBudget struct {
	Day              int
	AvailableMinutes int
	StartHour        float64
	MaxActivities    int
	DayTrip          bool
}

type RebalanceServiceInterface interface {
	Rebalance(clusters []plan_models.ActivityCluster, constraints plan_models.TripConstraints, audit *plan_models.PlanAudit) []plan_models.ActivityCluster
	ComputeBudgets(clusters []plan_models.ActivityCluster, constraints plan_models.TripConstraints) []DayBudget
}

type RebalanceService struct{}

func NewRebalanceService() RebalanceServiceInterface {
	return &RebalanceService{}
}

// Rebalance mutates the clusters in place through seven ordered phases, each
// correcting one failure mode of the geography-only partition. Every loop is
// bounded, so pathological inputs terminate with a partial result instead of
// hanging. Must-sees move between days but are only ever absent from the
// output when no day could hold them, and that is always logged.
func (s *RebalanceService) Rebalance(clusters []plan_models.ActivityCluster, constraints plan_models.TripConstraints, audit *plan_models.PlanAudit) []plan_models.ActivityCluster {
	if len(clusters) == 0 {
		return clusters
	}

	mustSeeBefore := mustSeeIDSet(clusters)
	budgets := s.ComputeBudgets(clusters, constraints)

	s.drainEmptyDays(clusters, budgets, audit)
	s.rebalanceDurations(clusters, budgets, audit)
	s.auditMustSeeDensity(clusters, budgets)
	s.relocateLateOutdoor(clusters, budgets)
	s.backfillIdleDays(clusters, budgets)
	s.guaranteeMustSees(clusters, budgets, audit)
	s.balanceFatigue(clusters, budgets)

	refreshClusterGeometry(clusters)
	s.reconcileMustSees(clusters, mustSeeBefore, audit)
	return clusters
}

// ComputeBudgets derives per-day available minutes and activity caps from the
// arrival/departure constraints. Day 1 loses the hours before arrival plus a
// transfer buffer; the last day ends a buffer before departure.
func (s *RebalanceService) ComputeBudgets(clusters []plan_models.ActivityCluster, constraints plan_models.TripConstraints) []DayBudget {
	meanCentroid := meanClusterCentroid(clusters)
	budgets := make([]DayBudget, len(clusters))

	for i, c := range clusters {
		start := dayStartHour
		end := dayEndHour

		if i == 0 && constraints.ArrivalHour != nil {
			start = math.Max(start, *constraints.ArrivalHour+transferBufferHours)
		}
		if i == len(clusters)-1 && constraints.DepartureHour != nil {
			end = math.Min(end, *constraints.DepartureHour-transferBufferHours)
		}

		available := int((end - start) * 60)
		if available < 0 {
			available = 0
		}
		if available > dayBaselineMinutes {
			available = dayBaselineMinutes
		}

		b := DayBudget{Day: c.Day, AvailableMinutes: available, StartHour: start}

		// A lone remote activity is a genuine day trip, not a capacity bug.
		if len(c.Activities) == 1 &&
			utils.HaversineKm(c.Activities[0].Coords, meanCentroid) > dayTripRemoteKm {
			b.DayTrip = true
			b.AvailableMinutes = dayTripBudgetMinutes
		}

		b.MaxActivities = maxActivitiesFor(c, b.AvailableMinutes)
		budgets[i] = b
	}
	return budgets
}

func maxActivitiesFor(c plan_models.ActivityCluster, availableMinutes int) int {
	availableHours := float64(availableMinutes)/60 - float64(mealOverheadMinutes)/60
	if availableHours <= 0 {
		return 0
	}

	avgCostHours := 60.0/60 + float64(travelOverheadMinutes)/60
	if len(c.Activities) > 0 {
		sum := 0.0
		for _, a := range c.Activities {
			sum += float64(a.DurationMinutes)/60 + float64(travelOverheadMinutes)/60
		}
		avgCostHours = sum / float64(len(c.Activities))
	}
	return int(availableHours / avgCostHours)
}

func usedMinutes(c plan_models.ActivityCluster) int {
	if len(c.Activities) == 0 {
		return 0
	}
	total := mealOverheadMinutes
	for _, a := range c.Activities {
		total += a.DurationMinutes + travelOverheadMinutes
	}
	return total
}

func spareMinutes(c plan_models.ActivityCluster, b DayBudget) int {
	if b.DayTrip {
		return 0 // day trips neither need nor accept extra load
	}
	return b.AvailableMinutes - usedMinutes(c)
}

// fitsInDay checks whether adding one activity keeps the day inside budget.
func fitsInDay(c plan_models.ActivityCluster, b DayBudget, a plan_models.ScoredActivity) bool {
	if b.DayTrip {
		return false
	}
	extra := a.DurationMinutes + travelOverheadMinutes
	if len(c.Activities) == 0 {
		extra += mealOverheadMinutes
	}
	return usedMinutes(c)+extra <= b.AvailableMinutes
}

// Phase 1: a day with zero time budget gives everything away. Items nobody
// can absorb are dropped and logged, never silently lost.
func (s *RebalanceService) drainEmptyDays(clusters []plan_models.ActivityCluster, budgets []DayBudget, audit *plan_models.PlanAudit) {
	for i := range clusters {
		if budgets[i].AvailableMinutes > 0 || budgets[i].DayTrip || len(clusters[i].Activities) == 0 {
			continue
		}
		pending := clusters[i].Activities
		clusters[i].Activities = nil

		for _, a := range pending {
			target := bestRecipient(clusters, budgets, i, a)
			if target == -1 {
				code := plan_models.WarnActivityDropped
				if a.MustSee {
					code = plan_models.WarnMustSeeUnplaced
				}
				audit.Add(code, a.ID, "%q lost: day %d has no time and no other day can absorb it", a.Name, budgets[i].Day)
				continue
			}
			clusters[target].Activities = append(clusters[target].Activities, a)
		}
	}
}

// Phase 2: shed load from overloaded days, cheapest candidates first.
// Must-sees move only when nothing else is left, and the longest goes first.
func (s *RebalanceService) rebalanceDurations(clusters []plan_models.ActivityCluster, budgets []DayBudget, audit *plan_models.PlanAudit) {
	for i := range clusters {
		if budgets[i].DayTrip {
			continue
		}
		iter := 0
		for usedMinutes(clusters[i]) > budgets[i].AvailableMinutes {
			iter++
			if iter > phaseIterationCap {
				audit.Add(plan_models.WarnPhaseCapped, "", "duration rebalancing on day %d hit the iteration cap", budgets[i].Day)
				break
			}

			victim := lowestScoredIndex(clusters[i].Activities, func(a plan_models.ScoredActivity) bool { return !a.MustSee })
			if victim == -1 {
				// Only must-sees left: move the longest one, never discard.
				victim = longestIndex(clusters[i].Activities)
			}
			if victim == -1 {
				break
			}

			target := bestRecipient(clusters, budgets, i, clusters[i].Activities[victim])
			if target == -1 {
				break // phase 6 deals with stuck must-sees
			}
			moveActivity(clusters, i, victim, target)
		}
	}
}

// Phase 3: a day whose must-sees alone overflow its budget sheds the
// lowest-scored excess must-sees to days that can fit them.
func (s *RebalanceService) auditMustSeeDensity(clusters []plan_models.ActivityCluster, budgets []DayBudget) {
	for i := range clusters {
		if budgets[i].DayTrip {
			continue
		}
		for iter := 0; iter < phaseIterationCap; iter++ {
			mustSeeIdx := indexesWhere(clusters[i].Activities, func(a plan_models.ScoredActivity) bool { return a.MustSee })
			if len(mustSeeIdx) <= 1 || mustSeeDuration(clusters[i]) <= budgets[i].AvailableMinutes {
				break
			}

			victim := -1
			for _, idx := range mustSeeIdx {
				if victim == -1 || clusters[i].Activities[idx].Score < clusters[i].Activities[victim].Score {
					victim = idx
				}
			}
			target := bestRecipient(clusters, budgets, i, clusters[i].Activities[victim])
			if target == -1 {
				break
			}
			moveActivity(clusters, i, victim, target)
		}
	}
}

// Phase 4: outdoor must-sees need daylight. A day that starts after 14:00
// hands them to the earliest-starting day with room.
func (s *RebalanceService) relocateLateOutdoor(clusters []plan_models.ActivityCluster, budgets []DayBudget) {
	for i := range clusters {
		if budgets[i].StartHour <= lateStartHour || budgets[i].DayTrip {
			continue
		}
		for iter := 0; iter < phaseIterationCap; iter++ {
			victim := -1
			for idx, a := range clusters[i].Activities {
				if a.MustSee && isOutdoorActivity(a.Name, a.Category) {
					victim = idx
					break
				}
			}
			if victim == -1 {
				break
			}

			target := -1
			for j := range clusters {
				if j == i || budgets[j].DayTrip || budgets[j].StartHour > lateStartHour {
					continue
				}
				if !fitsInDay(clusters[j], budgets[j], clusters[i].Activities[victim]) {
					continue
				}
				if target == -1 || budgets[j].StartHour < budgets[target].StartHour {
					target = j
				}
			}
			if target == -1 {
				break
			}
			moveActivity(clusters, i, victim, target)
		}
	}
}

// Phase 5: a day with time but nothing to do steals from its neighbors in
// three escalating passes, preferring items that fit its budget.
func (s *RebalanceService) backfillIdleDays(clusters []plan_models.ActivityCluster, budgets []DayBudget) {
	for i := range clusters {
		if len(clusters[i].Activities) > 0 || budgets[i].AvailableMinutes <= 0 || budgets[i].DayTrip {
			continue
		}

		if s.stealInto(clusters, budgets, i, func(j int, a plan_models.ScoredActivity) bool {
			return !a.MustSee && usedMinutes(clusters[j]) > budgets[j].AvailableMinutes
		}) {
			continue
		}
		if s.stealInto(clusters, budgets, i, func(j int, a plan_models.ScoredActivity) bool {
			return !a.MustSee && len(clusters[j].Activities) >= 2
		}) {
			continue
		}
		s.stealInto(clusters, budgets, i, func(j int, a plan_models.ScoredActivity) bool {
			return a.MustSee && len(clusters[j].Activities) >= 3
		})
	}
}

// stealInto moves the lowest-scored eligible activity into day i, preferring
// donors whose candidate fits i's duration budget.
func (s *RebalanceService) stealInto(clusters []plan_models.ActivityCluster, budgets []DayBudget, i int, eligible func(j int, a plan_models.ScoredActivity) bool) bool {
	bestDonor, bestIdx := -1, -1
	bestFits := false
	var bestScore float64

	for j := range clusters {
		if j == i || budgets[j].DayTrip {
			continue
		}
		for idx, a := range clusters[j].Activities {
			if !eligible(j, a) {
				continue
			}
			fits := fitsInDay(clusters[i], budgets[i], a)
			better := bestDonor == -1 ||
				(fits && !bestFits) ||
				(fits == bestFits && a.Score < bestScore)
			if better {
				bestDonor, bestIdx, bestFits, bestScore = j, idx, fits, a.Score
			}
		}
	}
	if bestDonor == -1 {
		return false
	}
	moveActivity(clusters, bestDonor, bestIdx, i)
	return true
}

// Phase 6: the last line of defense for must-sees. Every must-see still on an
// overloaded day gets moved to spare capacity, evicting a low-value
// non-must-see elsewhere if that is what it takes.
func (s *RebalanceService) guaranteeMustSees(clusters []plan_models.ActivityCluster, budgets []DayBudget, audit *plan_models.PlanAudit) {
	for i := range clusters {
		if budgets[i].DayTrip {
			continue
		}
		for iter := 0; iter < phaseIterationCap; iter++ {
			if usedMinutes(clusters[i]) <= budgets[i].AvailableMinutes {
				break
			}
			victim := lowestScoredIndex(clusters[i].Activities, func(a plan_models.ScoredActivity) bool { return a.MustSee })
			if victim == -1 {
				break
			}
			mustSee := clusters[i].Activities[victim]

			if target := bestRecipient(clusters, budgets, i, mustSee); target != -1 {
				moveActivity(clusters, i, victim, target)
				continue
			}

			// No day fits it outright: make room on the day with the most
			// spare capacity by evicting its weakest non-must-see.
			target := mostSpareDay(clusters, budgets, i)
			if target == -1 {
				audit.Add(plan_models.WarnMustSeeUnplaced, mustSee.ID,
					"must-see %q stays on overloaded day %d: no day can make room", mustSee.Name, budgets[i].Day)
				break
			}
			evicted := lowestScoredIndex(clusters[target].Activities, func(a plan_models.ScoredActivity) bool { return !a.MustSee })
			if evicted == -1 {
				audit.Add(plan_models.WarnMustSeeUnplaced, mustSee.ID,
					"must-see %q stays on overloaded day %d: candidate day holds only must-sees", mustSee.Name, budgets[i].Day)
				break
			}

			out := clusters[target].Activities[evicted]
			clusters[target].Activities = append(clusters[target].Activities[:evicted], clusters[target].Activities[evicted+1:]...)
			if home := bestRecipient(clusters, budgets, target, out); home != -1 {
				clusters[home].Activities = append(clusters[home].Activities, out)
			} else {
				audit.Add(plan_models.WarnActivityDropped, out.ID,
					"%q evicted to make room for must-see %q", out.Name, mustSee.Name)
			}
			moveActivity(clusters, i, victim, target)
		}
	}
}

// Phase 7: cap heavy activities per day so no single day is exhausting.
func (s *RebalanceService) balanceFatigue(clusters []plan_models.ActivityCluster, budgets []DayBudget) {
	for i := range clusters {
		if budgets[i].DayTrip {
			continue
		}
		for iter := 0; iter < phaseIterationCap; iter++ {
			if heavyCount(clusters[i]) <= maxHeavyPerDay {
				break
			}
			victim := lowestScoredIndex(clusters[i].Activities, func(a plan_models.ScoredActivity) bool {
				return !a.MustSee && a.DurationMinutes >= heavyActivityMinutes
			})
			if victim == -1 {
				break
			}

			target := -1
			for j := range clusters {
				if j == i || budgets[j].DayTrip || heavyCount(clusters[j]) >= maxHeavyPerDay {
					continue
				}
				if !fitsInDay(clusters[j], budgets[j], clusters[i].Activities[victim]) {
					continue
				}
				if target == -1 || heavyCount(clusters[j]) < heavyCount(clusters[target]) {
					target = j
				}
			}
			if target == -1 {
				break
			}
			moveActivity(clusters, i, victim, target)
		}
	}
}

func (s *RebalanceService) reconcileMustSees(clusters []plan_models.ActivityCluster, before map[string]string, audit *plan_models.PlanAudit) {
	after := mustSeeIDSet(clusters)
	missing := make([]string, 0)
	for id := range before {
		if _, ok := after[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	for _, id := range missing {
		if !auditAlreadyCovers(audit, id) {
			audit.Add(plan_models.WarnMustSeeUnplaced, id, "must-see %q missing after rebalancing", before[id])
		}
	}
}

func auditAlreadyCovers(audit *plan_models.PlanAudit, entityID string) bool {
	for _, w := range audit.Warnings() {
		if w.EntityID == entityID && (w.Code == plan_models.WarnMustSeeUnplaced || w.Code == plan_models.WarnActivityDropped) {
			return true
		}
	}
	return false
}

// ---- helpers ----

// bestRecipient picks the day with the most remaining capacity that can
// still fit the activity. Returns -1 when no day qualifies.
func bestRecipient(clusters []plan_models.ActivityCluster, budgets []DayBudget, exclude int, a plan_models.ScoredActivity) int {
	best := -1
	bestSpare := 0
	for j := range clusters {
		if j == exclude || budgets[j].DayTrip {
			continue
		}
		if !fitsInDay(clusters[j], budgets[j], a) {
			continue
		}
		if spare := spareMinutes(clusters[j], budgets[j]); best == -1 || spare > bestSpare {
			best = j
			bestSpare = spare
		}
	}
	return best
}

func mostSpareDay(clusters []plan_models.ActivityCluster, budgets []DayBudget, exclude int) int {
	best := -1
	bestSpare := math.MinInt32
	for j := range clusters {
		if j == exclude || budgets[j].DayTrip || budgets[j].AvailableMinutes <= 0 {
			continue
		}
		if spare := spareMinutes(clusters[j], budgets[j]); spare > bestSpare {
			best = j
			bestSpare = spare
		}
	}
	return best
}

func moveActivity(clusters []plan_models.ActivityCluster, from, idx, to int) {
	a := clusters[from].Activities[idx]
	clusters[from].Activities = append(clusters[from].Activities[:idx], clusters[from].Activities[idx+1:]...)
	clusters[to].Activities = append(clusters[to].Activities, a)
}

func lowestScoredIndex(activities []plan_models.ScoredActivity, match func(plan_models.ScoredActivity) bool) int {
	best := -1
	for i, a := range activities {
		if !match(a) {
			continue
		}
		if best == -1 || a.Score < activities[best].Score {
			best = i
		}
	}
	return best
}

func longestIndex(activities []plan_models.ScoredActivity) int {
	best := -1
	for i, a := range activities {
		if best == -1 || a.DurationMinutes > activities[best].DurationMinutes {
			best = i
		}
	}
	return best
}

func indexesWhere(activities []plan_models.ScoredActivity, match func(plan_models.ScoredActivity) bool) []int {
	var out []int
	for i, a := range activities {
		if match(a) {
			out = append(out, i)
		}
	}
	return out
}

func mustSeeDuration(c plan_models.ActivityCluster) int {
	total := 0
	for _, a := range c.Activities {
		if a.MustSee {
			total += a.DurationMinutes
		}
	}
	return total
}

func heavyCount(c plan_models.ActivityCluster) int {
	n := 0
	for _, a := range c.Activities {
		if a.DurationMinutes >= heavyActivityMinutes {
			n++
		}
	}
	return n
}

func mustSeeIDSet(clusters []plan_models.ActivityCluster) map[string]string {
	ids := make(map[string]string)
	for _, c := range clusters {
		for _, a := range c.Activities {
			if a.MustSee {
				ids[a.ID] = a.Name
			}
		}
	}
	return ids
}

func meanClusterCentroid(clusters []plan_models.ActivityCluster) plan_models.Coordinates {
	coords := make([]plan_models.Coordinates, 0, len(clusters))
	for _, c := range clusters {
		coords = append(coords, c.Centroid)
	}
	center, _ := utils.Barycenter(coords)
	return center
}

func refreshClusterGeometry(clusters []plan_models.ActivityCluster) {
	for i := range clusters {
		if c, ok := utils.Barycenter(coordsOf(clusters[i].Activities)); ok {
			clusters[i].Centroid = c
		}
		clusters[i].SpreadKm = meanDistanceKm(clusters[i].Activities, clusters[i].Centroid)
	}
}
