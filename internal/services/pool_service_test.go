package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripweaver/internal/models/plan_models"
)

func parisPrefs(numDays int) plan_models.TravelPrefs {
	return plan_models.TravelPrefs{
		Destination: "Paris",
		DestCenter:  plan_models.Coordinates{Lat: 48.8566, Lng: 2.3522},
		NumDays:     numDays,
		GroupType:   "solo",
		BudgetLevel: "mid",
		DiningTier:  2,
		Constraints: plan_models.TripConstraints{NumDays: numDays, TransportMode: "walking"},
	}
}

func poolActivity(id, name, category string, lat, lng float64, reviews int) plan_models.Activity {
	return plan_models.Activity{
		ID:              id,
		Name:            name,
		Category:        category,
		Coords:          plan_models.Coordinates{Lat: lat, Lng: lng},
		DurationMinutes: 60,
		Rating:          4.2,
		ReviewCount:     reviews,
		Reliability:     plan_models.ReliabilityEstimated,
	}
}

func TestBuildPoolDeduplicatesNearbyRecords(t *testing.T) {
	svc := NewPoolService()
	audit := plan_models.NewPlanAudit()

	weak := poolActivity("a1", "Musee d'Orsay", "museum", 48.8600, 2.3266, 100)
	strong := poolActivity("a2", "Musée d'Orsay", "museum", 48.8603, 2.3267, 9000)
	weak.MustSee = true

	pool := svc.BuildPool([]plan_models.SourceList{
		{Source: "catalog", Activities: []plan_models.Activity{weak, strong}},
	}, parisPrefs(2), audit)

	require.Len(t, pool, 1)
	assert.Equal(t, "a2", pool[0].ID, "record with more reviews survives")
	assert.True(t, pool[0].MustSee, "must-see flag survives the merge either way")
}

func TestBuildPoolDropsNonAttractions(t *testing.T) {
	svc := NewPoolService()
	audit := plan_models.NewPlanAudit()

	eatery := poolActivity("r1", "Chez Paul", "restaurant", 48.8570, 2.3500, 400)
	keeper := poolActivity("m1", "Louvre Museum", "museum", 48.8606, 2.3376, 90000)
	override := poolActivity("sq1", "Market Square Old Town", "square", 48.8580, 2.3490, 1200)

	pool := svc.BuildPool([]plan_models.SourceList{
		{Source: "catalog", Activities: []plan_models.Activity{eatery, keeper, override}},
	}, parisPrefs(2), audit)

	ids := make(map[string]bool)
	for _, a := range pool {
		ids[a.ID] = true
	}
	assert.False(t, ids["r1"], "restaurant category is filtered out")
	assert.True(t, ids["m1"])
	assert.True(t, ids["sq1"], "attraction keyword in the name overrides the category filter")
	assert.True(t, audit.HasCode(plan_models.WarnActivityDropped))
}

func TestBuildPoolMustSeeSurvivesCategoryFilter(t *testing.T) {
	svc := NewPoolService()
	audit := plan_models.NewPlanAudit()

	diner := poolActivity("r2", "Le Fancy Diner", "restaurant", 48.8570, 2.3500, 400)
	diner.MustSee = true

	pool := svc.BuildPool([]plan_models.SourceList{
		{Source: "catalog", Activities: []plan_models.Activity{diner}},
	}, parisPrefs(1), audit)

	require.Len(t, pool, 1)
	assert.Equal(t, "r2", pool[0].ID)
}

func TestBuildPoolWarnsOnInvalidCoordinates(t *testing.T) {
	svc := NewPoolService()
	audit := plan_models.NewPlanAudit()

	nullIsland := poolActivity("n1", "Ghost Garden", "garden", 0, 0, 50)
	mustSee := poolActivity("n2", "Phantom Palace", "palace", 0, 0, 50)
	mustSee.MustSee = true

	pool := svc.BuildPool([]plan_models.SourceList{
		{Source: "catalog", Activities: []plan_models.Activity{nullIsland, mustSee}},
	}, parisPrefs(1), audit)

	assert.Empty(t, pool)
	assert.True(t, audit.HasCode(plan_models.WarnCoordsUnresolved))
	assert.True(t, audit.HasCode(plan_models.WarnMustSeeUnplaced))
}

func TestBuildPoolMustSeeOutranksEverything(t *testing.T) {
	svc := NewPoolService()
	audit := plan_models.NewPlanAudit()

	popular := poolActivity("p1", "Louvre Museum", "museum", 48.8606, 2.3376, 90000)
	popular.Rating = 4.9
	obscure := poolActivity("p2", "Tiny Chapel", "church", 48.8590, 2.3400, 3)
	obscure.Rating = 3.1
	obscure.MustSee = true

	pool := svc.BuildPool([]plan_models.SourceList{
		{Source: "catalog", Activities: []plan_models.Activity{popular, obscure}},
	}, parisPrefs(2), audit)

	require.Len(t, pool, 2)
	assert.Equal(t, "p2", pool[0].ID, "must-see bonus dominates review and rating terms")
}

func TestBuildPoolTrimsToTargetButKeepsMustSees(t *testing.T) {
	svc := NewPoolService()
	audit := plan_models.NewPlanAudit()

	var activities []plan_models.Activity
	for i := 0; i < 30; i++ {
		a := poolActivity(
			string(rune('a'+i%26))+string(rune('0'+i/26)),
			"Gallery Nr "+string(rune('A'+i)),
			"gallery",
			48.80+float64(i)*0.01, 2.30+float64(i)*0.01,
			10+i*7,
		)
		if i >= 28 {
			a.MustSee = true
		}
		activities = append(activities, a)
	}

	pool := svc.BuildPool([]plan_models.SourceList{
		{Source: "catalog", Activities: activities},
	}, parisPrefs(2), audit)

	// 2 days: target is 15 plus every must-see on top.
	assert.LessOrEqual(t, len(pool), 17)
	mustSees := 0
	for _, a := range pool {
		if a.MustSee {
			mustSees++
		}
	}
	assert.Equal(t, 2, mustSees)
}

func TestFixDurationAndCostLeavesVerifiedAlone(t *testing.T) {
	svc := NewPoolService()
	audit := plan_models.NewPlanAudit()

	estimated := poolActivity("e1", "City Museum", "museum", 48.8600, 2.3400, 500)
	estimated.DurationMinutes = 10

	verified := poolActivity("v1", "Quick Museum Stop", "museum", 48.8700, 2.3600, 500)
	verified.DurationMinutes = 10
	verified.Reliability = plan_models.ReliabilityVerified

	pool := svc.BuildPool([]plan_models.SourceList{
		{Source: "catalog", Activities: []plan_models.Activity{estimated, verified}},
	}, parisPrefs(1), audit)

	byID := make(map[string]plan_models.ScoredActivity)
	for _, a := range pool {
		byID[a.ID] = a
	}
	require.Contains(t, byID, "e1")
	require.Contains(t, byID, "v1")
	assert.Equal(t, 90, byID["e1"].DurationMinutes, "museum duration floors at 90 minutes")
	assert.Equal(t, 10, byID["v1"].DurationMinutes, "verified records are never corrected")
}
