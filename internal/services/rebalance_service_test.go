package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripweaver/internal/models/plan_models"
)

func floatPtr(v float64) *float64 { return &v }

func dayCluster(day int, activities ...plan_models.ScoredActivity) plan_models.ActivityCluster {
	coords := make([]plan_models.Coordinates, 0, len(activities))
	for _, a := range activities {
		coords = append(coords, a.Coords)
	}
	centroid := plan_models.Coordinates{Lat: 48.8566, Lng: 2.3522}
	if len(coords) > 0 {
		var lat, lng float64
		for _, c := range coords {
			lat += c.Lat
			lng += c.Lng
		}
		centroid = plan_models.Coordinates{Lat: lat / float64(len(coords)), Lng: lng / float64(len(coords))}
	}
	return plan_models.ActivityCluster{Day: day, Activities: activities, Centroid: centroid}
}

func timed(id string, minutes int, score float64, mustSee bool) plan_models.ScoredActivity {
	a := scored(id, 48.8566, 2.3522, score)
	a.DurationMinutes = minutes
	a.MustSee = mustSee
	return a
}

func TestComputeBudgetsClipsArrivalAndDeparture(t *testing.T) {
	svc := NewRebalanceService()
	clusters := []plan_models.ActivityCluster{
		dayCluster(1, timed("a", 60, 10, false)),
		dayCluster(2, timed("b", 60, 10, false)),
		dayCluster(3, timed("c", 60, 10, false)),
	}
	constraints := plan_models.TripConstraints{
		NumDays:       3,
		ArrivalHour:   floatPtr(14.0),
		DepartureHour: floatPtr(12.0),
	}

	budgets := svc.ComputeBudgets(clusters, constraints)
	require.Len(t, budgets, 3)

	// Day 1: 14:00 arrival + 1.5h transfer => 15:30 start, 21:00 end.
	assert.Equal(t, 15.5, budgets[0].StartHour)
	assert.Equal(t, 330, budgets[0].AvailableMinutes)

	// Day 2 is a full 09:00-21:00 day.
	assert.Equal(t, 720, budgets[1].AvailableMinutes)

	// Day 3: ends at 12:00 - 1.5h => 10:30, so 90 minutes from 09:00.
	assert.Equal(t, 90, budgets[2].AvailableMinutes)
}

func TestComputeBudgetsFlagsDayTrips(t *testing.T) {
	svc := NewRebalanceService()
	near := dayCluster(1,
		timed("n1", 60, 10, false),
		timed("n2", 60, 9, false),
		timed("n3", 60, 8, false))
	remote := timed("versailles", 240, 20, true)
	remote.Coords = plan_models.Coordinates{Lat: 49.30, Lng: 2.3522}
	far := dayCluster(2, remote)

	budgets := svc.ComputeBudgets([]plan_models.ActivityCluster{near, far}, plan_models.TripConstraints{NumDays: 2})

	assert.False(t, budgets[0].DayTrip)
	assert.True(t, budgets[1].DayTrip, "a lone remote activity is a day trip, not a capacity bug")
	assert.Equal(t, 720, budgets[1].AvailableMinutes)
}

func TestRebalanceDrainsZeroBudgetArrivalDay(t *testing.T) {
	svc := NewRebalanceService()
	audit := plan_models.NewPlanAudit()

	clusters := []plan_models.ActivityCluster{
		dayCluster(1, timed("a1", 60, 5, false)),
		dayCluster(2, timed("a2", 60, 7, false)),
	}
	// Landing at 20:00 leaves nothing of day 1 after the transfer buffer.
	constraints := plan_models.TripConstraints{NumDays: 2, ArrivalHour: floatPtr(20.0)}

	out := svc.Rebalance(clusters, constraints, audit)

	assert.Empty(t, out[0].Activities, "the arrival day gives everything away")
	assert.Len(t, out[1].Activities, 2)
	assert.False(t, audit.HasCode(plan_models.WarnActivityDropped))
}

func TestRebalanceShedsOverloadedDays(t *testing.T) {
	svc := NewRebalanceService()
	audit := plan_models.NewPlanAudit()

	overloaded := dayCluster(1,
		timed("h1", 120, 5, false),
		timed("h2", 120, 4, false),
		timed("h3", 120, 3, false),
		timed("h4", 120, 2, false),
		timed("h5", 120, 1, false))
	light := dayCluster(2, timed("l1", 60, 6, false))

	clusters := []plan_models.ActivityCluster{overloaded, light}
	out := svc.Rebalance(clusters, plan_models.TripConstraints{NumDays: 2}, audit)

	budgets := svc.ComputeBudgets(out, plan_models.TripConstraints{NumDays: 2})
	for i := range out {
		assert.LessOrEqual(t, usedMinutes(out[i]), budgets[i].AvailableMinutes,
			"day %d stays within its physical budget", out[i].Day)
	}
	assert.Len(t, plan_models.ActivityIDs(out), 6, "nothing is lost while shedding")
}

func TestRebalanceNeverDropsMustSeesWhenFeasible(t *testing.T) {
	svc := NewRebalanceService()
	audit := plan_models.NewPlanAudit()

	clusters := []plan_models.ActivityCluster{
		dayCluster(1,
			timed("m1", 120, 50, true),
			timed("m2", 120, 40, true),
			timed("f1", 120, 3, false),
			timed("f2", 120, 2, false),
			timed("f3", 120, 1, false)),
		dayCluster(2, timed("l1", 45, 6, false)),
	}

	out := svc.Rebalance(clusters, plan_models.TripConstraints{NumDays: 2}, audit)

	ids := plan_models.ActivityIDs(out)
	assert.Contains(t, ids, "m1")
	assert.Contains(t, ids, "m2")
	assert.False(t, audit.HasCode(plan_models.WarnMustSeeUnplaced))
}

func TestRebalanceCapsHeavyActivitiesPerDay(t *testing.T) {
	svc := NewRebalanceService()
	audit := plan_models.NewPlanAudit()

	clusters := []plan_models.ActivityCluster{
		dayCluster(1,
			timed("x1", 120, 9, false),
			timed("x2", 120, 8, false),
			timed("x3", 120, 7, false)),
		dayCluster(2,
			timed("y1", 30, 6, false),
			timed("y2", 30, 5, false)),
		dayCluster(3,
			timed("z1", 30, 4, false),
			timed("z2", 30, 3, false)),
	}

	out := svc.Rebalance(clusters, plan_models.TripConstraints{NumDays: 3}, audit)

	for _, c := range out {
		heavy := 0
		for _, a := range c.Activities {
			if a.DurationMinutes >= heavyActivityMinutes {
				heavy++
			}
		}
		assert.LessOrEqual(t, heavy, maxHeavyPerDay, "day %d fatigue cap", c.Day)
	}
	assert.Len(t, plan_models.ActivityIDs(out), 7)
}

func TestRebalanceBackfillsIdleDays(t *testing.T) {
	svc := NewRebalanceService()
	audit := plan_models.NewPlanAudit()

	clusters := []plan_models.ActivityCluster{
		dayCluster(1,
			timed("p1", 60, 9, false),
			timed("p2", 60, 8, false),
			timed("p3", 60, 7, false),
			timed("p4", 60, 6, false)),
		{Day: 2, Centroid: plan_models.Coordinates{Lat: 48.8566, Lng: 2.3522}},
	}

	out := svc.Rebalance(clusters, plan_models.TripConstraints{NumDays: 2}, audit)

	assert.NotEmpty(t, out[1].Activities, "an idle day steals work from its neighbors")
	assert.Len(t, plan_models.ActivityIDs(out), 4)
}

func TestRebalanceReportsTrulyInfeasibleMustSees(t *testing.T) {
	svc := NewRebalanceService()
	audit := plan_models.NewPlanAudit()

	var activities []plan_models.ScoredActivity
	for i := 0; i < 8; i++ {
		activities = append(activities, timed(fmt.Sprintf("ms%d", i), 240, float64(100-i), true))
	}
	clusters := []plan_models.ActivityCluster{dayCluster(1, activities...)}

	out := svc.Rebalance(clusters, plan_models.TripConstraints{NumDays: 1}, audit)

	// One day physically cannot hold 32 hours of must-sees; the failure is
	// loud, not silent.
	require.Len(t, out, 1)
	assert.True(t, audit.HasCode(plan_models.WarnMustSeeUnplaced) || audit.HasCode(plan_models.WarnPhaseCapped))
}
