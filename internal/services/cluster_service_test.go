package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripweaver/internal/models/plan_models"
)

func scored(id string, lat, lng, score float64) plan_models.ScoredActivity {
	return plan_models.ScoredActivity{
		Activity: plan_models.Activity{
			ID:              id,
			Name:            "Activity " + id,
			Category:        "museum",
			Coords:          plan_models.Coordinates{Lat: lat, Lng: lng},
			DurationMinutes: 60,
		},
		Score: score,
	}
}

func TestClusterPartitionsEveryActivityExactlyOnce(t *testing.T) {
	svc := NewClusterService()
	center := plan_models.Coordinates{Lat: 48.8566, Lng: 2.3522}

	var pool []plan_models.ScoredActivity
	for i := 0; i < 12; i++ {
		pool = append(pool, scored(fmt.Sprintf("a%02d", i), 48.80+float64(i)*0.02, 2.30+float64(i)*0.02, float64(50-i)))
	}

	clusters := svc.Cluster(pool, 3, center)

	require.Len(t, clusters, 3)
	counts := plan_models.ActivityIDs(clusters)
	assert.Len(t, counts, 12)
	for id, n := range counts {
		assert.Equal(t, 1, n, "activity %s assigned to exactly one day", id)
	}
	for i, c := range clusters {
		assert.Equal(t, i+1, c.Day)
	}
}

func TestClusterIsDeterministic(t *testing.T) {
	svc := NewClusterService()
	center := plan_models.Coordinates{Lat: 48.8566, Lng: 2.3522}

	var pool []plan_models.ScoredActivity
	for i := 0; i < 10; i++ {
		pool = append(pool, scored(fmt.Sprintf("b%02d", i), 48.82+float64(i%5)*0.03, 2.28+float64(i/5)*0.05, float64(30-i)))
	}

	first := svc.Cluster(pool, 3, center)
	second := svc.Cluster(pool, 3, center)
	assert.Equal(t, first, second)
}

func TestClusterSeparatesDistantNeighborhoods(t *testing.T) {
	svc := NewClusterService()
	center := plan_models.Coordinates{Lat: 48.8566, Lng: 2.3522}

	downtown := []plan_models.ScoredActivity{
		scored("d1", 48.8566, 2.3522, 40),
		scored("d2", 48.8580, 2.3540, 35),
		scored("d3", 48.8550, 2.3500, 30),
	}
	versailles := []plan_models.ScoredActivity{
		scored("v1", 48.8049, 2.1204, 45),
		scored("v2", 48.8060, 2.1190, 20),
	}

	clusters := svc.Cluster(append(downtown, versailles...), 2, center)
	require.Len(t, clusters, 2)

	dayOf := make(map[string]int)
	for _, c := range clusters {
		for _, a := range c.Activities {
			dayOf[a.ID] = c.Day
		}
	}
	assert.Equal(t, dayOf["d1"], dayOf["d2"])
	assert.Equal(t, dayOf["d1"], dayOf["d3"])
	assert.Equal(t, dayOf["v1"], dayOf["v2"])
	assert.NotEqual(t, dayOf["d1"], dayOf["v1"])

	// Day numbering starts at the centroid closest to the city center.
	assert.Equal(t, 1, dayOf["d1"])
	assert.Equal(t, 2, dayOf["v1"])
}

func TestClusterKeepsBucketSizesLoose(t *testing.T) {
	svc := NewClusterService()
	center := plan_models.Coordinates{Lat: 48.8566, Lng: 2.3522}

	// 9 activities in one tight blob plus 1 outlier, over 2 days: the loose
	// balancer caps any day at ceil(10/2)+2 = 7.
	var pool []plan_models.ScoredActivity
	for i := 0; i < 9; i++ {
		pool = append(pool, scored(fmt.Sprintf("c%02d", i), 48.8566+float64(i)*0.0004, 2.3522, float64(20-i)))
	}
	pool = append(pool, scored("far", 48.99, 2.60, 10))

	clusters := svc.Cluster(pool, 2, center)
	for _, c := range clusters {
		assert.LessOrEqual(t, len(c.Activities), 7)
	}
}
