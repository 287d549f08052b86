package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripweaver/internal/models/plan_models"
)

func matrixPoints() []MatrixPoint {
	return []MatrixPoint{
		{ID: "louvre", Coords: plan_models.Coordinates{Lat: 48.8606, Lng: 2.3376}},
		{ID: "orsay", Coords: plan_models.Coordinates{Lat: 48.8600, Lng: 2.3266}},
		{ID: "eiffel", Coords: plan_models.Coordinates{Lat: 48.8584, Lng: 2.2945}},
	}
}

func TestComputeDistancesFullMatrix(t *testing.T) {
	svc := NewEstimatedMatrixService(NewInMemoryPairCache())

	mat, err := svc.ComputeDistances(context.Background(), matrixPoints(), "walking")
	require.NoError(t, err)
	require.Len(t, mat, 3)

	assert.Equal(t, MatrixEdge{}, mat["louvre"]["louvre"], "diagonal is zero")
	assert.Equal(t, mat["louvre"]["orsay"], mat["orsay"]["louvre"], "estimates are symmetric")
	assert.Greater(t, mat["louvre"]["eiffel"].DistanceMeters, mat["louvre"]["orsay"].DistanceMeters)
	assert.Greater(t, mat["louvre"]["orsay"].TravelMinutes, 0)
}

func TestComputeDistancesModeChangesSpeedNotDistance(t *testing.T) {
	svc := NewEstimatedMatrixService(NewInMemoryPairCache())
	ctx := context.Background()

	walking, err := svc.ComputeDistances(ctx, matrixPoints(), "walking")
	require.NoError(t, err)
	driving, err := svc.ComputeDistances(ctx, matrixPoints(), "driving")
	require.NoError(t, err)

	assert.Equal(t, walking["louvre"]["eiffel"].DistanceMeters, driving["louvre"]["eiffel"].DistanceMeters)
	assert.Greater(t, walking["louvre"]["eiffel"].TravelMinutes, driving["louvre"]["eiffel"].TravelMinutes)
}

func TestComputeDistancesUnknownModeFallsBackToWalking(t *testing.T) {
	svc := NewEstimatedMatrixService(NewInMemoryPairCache())
	ctx := context.Background()

	hoverboard, err := svc.ComputeDistances(ctx, matrixPoints(), "hoverboard")
	require.NoError(t, err)
	walking, err := svc.ComputeDistances(ctx, matrixPoints(), "walking")
	require.NoError(t, err)

	assert.Equal(t, walking, hoverboard)
}

func TestComputeDistancesServesCachedEdges(t *testing.T) {
	cache := NewInMemoryPairCache()
	svc := NewEstimatedMatrixService(cache)
	ctx := context.Background()

	first, err := svc.ComputeDistances(ctx, matrixPoints(), "transit")
	require.NoError(t, err)

	// Poison the cache to prove the second call reads from it.
	cache.Set(pairKey{Mode: "transit", A: "louvre", B: "orsay"}, MatrixEdge{DistanceMeters: 1, TravelMinutes: 1}, svc.DefaultTTL)

	second, err := svc.ComputeDistances(ctx, matrixPoints(), "transit")
	require.NoError(t, err)

	assert.NotEqual(t, first["louvre"]["orsay"], second["louvre"]["orsay"])
	assert.Equal(t, MatrixEdge{DistanceMeters: 1, TravelMinutes: 1}, second["louvre"]["orsay"])
}
