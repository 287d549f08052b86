package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripweaver/internal/models/plan_models"
)

func TestHaversineKmKnownDistance(t *testing.T) {
	paris := plan_models.Coordinates{Lat: 48.8566, Lng: 2.3522}
	london := plan_models.Coordinates{Lat: 51.5074, Lng: -0.1278}

	d := HaversineKm(paris, london)
	assert.InDelta(t, 344, d, 5)
	assert.Equal(t, 0.0, HaversineKm(paris, paris))
	assert.InDelta(t, HaversineKm(paris, london), HaversineKm(london, paris), 1e-9)
}

func TestBarycenterSkipsInvalidCoordinates(t *testing.T) {
	points := []plan_models.Coordinates{
		{Lat: 48.0, Lng: 2.0},
		{Lat: 50.0, Lng: 4.0},
		{Lat: 0, Lng: 0}, // null island, ignored
	}

	center, ok := Barycenter(points)
	require.True(t, ok)
	assert.InDelta(t, 49.0, center.Lat, 1e-9)
	assert.InDelta(t, 3.0, center.Lng, 1e-9)

	_, ok = Barycenter([]plan_models.Coordinates{{Lat: 0, Lng: 0}})
	assert.False(t, ok)

	_, ok = Barycenter(nil)
	assert.False(t, ok)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(7, 0, 5))
	assert.Equal(t, 0.0, Clamp(-2, 0, 5))
	assert.Equal(t, 3.0, Clamp(3, 0, 5))
}
