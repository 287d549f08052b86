package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripweaver/internal/models/plan_models"
)

func hotelAt(id string, lat, lng, rating, price float64) plan_models.Accommodation {
	return plan_models.Accommodation{
		ID:           id,
		Name:         "Hotel " + id,
		Coords:       plan_models.Coordinates{Lat: lat, Lng: lng},
		Rating:       rating,
		NightlyPrice: price,
		Currency:     "EUR",
	}
}

func centralClusters() []plan_models.ActivityCluster {
	return []plan_models.ActivityCluster{
		dayCluster(1,
			timed("a1", 60, 10, false),
			timed("a2", 60, 9, false)),
		dayCluster(2, timed("a3", 60, 8, false)),
	}
}

func TestHotelSelectPrefersProximityOverRating(t *testing.T) {
	svc := NewHotelService()

	// ~1km north of the activities vs ~10km away with a better rating.
	near := hotelAt("near", 48.8656, 2.3522, 8.0, 120)
	farButFancy := hotelAt("fancy", 48.9466, 2.3522, 9.8, 120)

	choice := svc.Select(centralClusters(), []plan_models.Accommodation{farButFancy, near}, "mid", nil)

	require.NotNil(t, choice)
	assert.Equal(t, "near", choice.ID, "distance dominates rating in the hotel score")
}

func TestHotelSelectNormalizesFivePointRatings(t *testing.T) {
	svc := NewHotelService()

	fivePoint := hotelAt("five", 48.8600, 2.3522, 4.5, 100)
	choice := svc.Select(centralClusters(), []plan_models.Accommodation{fivePoint}, "mid", nil)

	require.NotNil(t, choice)
	assert.Equal(t, 9.0, choice.Rating, "a 4.5/5 reads as 9/10")
}

func TestHotelSelectPenalizesOverBudget(t *testing.T) {
	svc := NewHotelService()
	maxNightly := 100.0

	affordable := hotelAt("cheap", 48.8600, 2.3560, 7.0, 90)
	pricey := hotelAt("pricey", 48.8600, 2.3540, 7.0, 600)
	filler1 := hotelAt("f1", 48.8610, 2.3580, 6.0, 95)
	filler2 := hotelAt("f2", 48.8620, 2.3590, 6.0, 95)

	choice := svc.Select(centralClusters(),
		[]plan_models.Accommodation{pricey, affordable, filler1, filler2}, "mid", &maxNightly)

	require.NotNil(t, choice)
	assert.NotEqual(t, "pricey", choice.ID)
}

func TestHotelSelectIsDeterministic(t *testing.T) {
	svc := NewHotelService()
	hotels := []plan_models.Accommodation{
		hotelAt("h1", 48.8600, 2.3540, 7.0, 100),
		hotelAt("h2", 48.8610, 2.3550, 7.5, 110),
		hotelAt("h3", 48.8620, 2.3560, 8.0, 120),
	}

	first := svc.Select(centralClusters(), hotels, "mid", nil)
	second := svc.Select(centralClusters(), hotels, "mid", nil)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
}

func TestHotelSelectSkipsInvalidCoordinates(t *testing.T) {
	svc := NewHotelService()

	ghost := hotelAt("ghost", 0, 0, 9.9, 50)
	real := hotelAt("real", 48.8600, 2.3540, 6.0, 100)

	choice := svc.Select(centralClusters(), []plan_models.Accommodation{ghost, real}, "mid", nil)
	require.NotNil(t, choice)
	assert.Equal(t, "real", choice.ID)

	assert.Nil(t, svc.Select(centralClusters(), []plan_models.Accommodation{ghost}, "mid", nil))
}

func TestHotelSelectFallsBackToBestRatedWithoutActivities(t *testing.T) {
	svc := NewHotelService()
	empty := []plan_models.ActivityCluster{{Day: 1}}

	hotels := []plan_models.Accommodation{
		hotelAt("ok", 48.8600, 2.3540, 3.5, 100),
		hotelAt("best", 48.9000, 2.4000, 4.8, 200),
	}

	choice := svc.Select(empty, hotels, "mid", nil)
	require.NotNil(t, choice)
	assert.Equal(t, "best", choice.ID)
}
