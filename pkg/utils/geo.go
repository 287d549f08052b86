package utils

import (
	"math"

	"tripweaver/internal/models/plan_models"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two coordinates.
func HaversineKm(a, b plan_models.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Barycenter is the coordinate-wise mean of points with valid coordinates.
// The bool is false when no valid point exists.
func Barycenter(points []plan_models.Coordinates) (plan_models.Coordinates, bool) {
	var sumLat, sumLng float64
	n := 0
	for _, p := range points {
		if !p.IsValid() {
			continue
		}
		sumLat += p.Lat
		sumLng += p.Lng
		n++
	}
	if n == 0 {
		return plan_models.Coordinates{}, false
	}
	return plan_models.Coordinates{Lat: sumLat / float64(n), Lng: sumLng / float64(n)}, true
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
