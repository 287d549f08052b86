package services

import (
	"context"
	"sync"
	"time"

	"tripweaver/internal/models/plan_models"
	"tripweaver/pkg/utils"
)

type MatrixPoint struct {
	ID     string
	Coords plan_models.Coordinates
}

type MatrixEdge struct {
	DistanceMeters int
	TravelMinutes  int
}

type DistanceMatrix map[string]map[string]MatrixEdge

// --------- in-memory cache keyed by (mode, A, B) ---------

type pairKey struct {
	Mode string
	A    string
	B    string
}

type pairCacheEntry struct {
	Edge      MatrixEdge
	ExpiresAt time.Time
}

type MatrixPairCache interface {
	Get(k pairKey) (MatrixEdge, bool)
	Set(k pairKey, v MatrixEdge, ttl time.Duration)
}

type inMemoryPairCache struct {
	mu    sync.RWMutex
	store map[pairKey]pairCacheEntry
}

func NewInMemoryPairCache() MatrixPairCache {
	return &inMemoryPairCache{store: make(map[pairKey]pairCacheEntry)}
}

func (c *inMemoryPairCache) Get(k pairKey) (MatrixEdge, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.store[k]
	if !ok || time.Now().After(it.ExpiresAt) {
		return MatrixEdge{}, false
	}
	return it.Edge, true
}

func (c *inMemoryPairCache) Set(k pairKey, v MatrixEdge, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[k] = pairCacheEntry{Edge: v, ExpiresAt: time.Now().Add(ttl)}
}

// -------------- haversine estimator ---------------

type DistanceMatrixService interface {
	ComputeDistances(ctx context.Context, points []MatrixPoint, mode string) (DistanceMatrix, error)
}

// Straight-line speed per transport mode, km/h, deflated to account for
// street networks not being straight lines.
var modeSpeedKmh = map[string]float64{
	"walking": 4.0,
	"transit": 14.0,
	"driving": 25.0,
}

type EstimatedMatrixService struct {
	Cache      MatrixPairCache
	DefaultTTL time.Duration
}

func NewEstimatedMatrixService(cache MatrixPairCache) *EstimatedMatrixService {
	return &EstimatedMatrixService{
		Cache:      cache,
		DefaultTTL: 7 * 24 * time.Hour,
	}
}

// ComputeDistances fills a full pairwise matrix from haversine distances and
// mode speed. Edges are cached per (mode, A, B) so repeated plans over the
// same catalog stay cheap.
func (s *EstimatedMatrixService) ComputeDistances(ctx context.Context, points []MatrixPoint, mode string) (DistanceMatrix, error) {
	speed, ok := modeSpeedKmh[mode]
	if !ok {
		speed = modeSpeedKmh["walking"]
		mode = "walking"
	}

	mat := make(DistanceMatrix, len(points))
	for _, p := range points {
		mat[p.ID] = make(map[string]MatrixEdge, len(points))
	}

	for i := range points {
		for j := range points {
			if i == j {
				mat[points[i].ID][points[j].ID] = MatrixEdge{}
				continue
			}
			k := pairKey{Mode: mode, A: points[i].ID, B: points[j].ID}
			if edge, ok := s.Cache.Get(k); ok {
				mat[points[i].ID][points[j].ID] = edge
				continue
			}

			km := utils.HaversineKm(points[i].Coords, points[j].Coords)
			edge := MatrixEdge{
				DistanceMeters: int(km*1000 + 0.5),
				TravelMinutes:  int(km/speed*60 + 0.5),
			}
			mat[points[i].ID][points[j].ID] = edge
			s.Cache.Set(k, edge, s.DefaultTTL)
		}
	}
	return mat, nil
}
