package services

import (
	"sort"

	"tripweaver/internal/models/plan_models"
	"tripweaver/pkg/utils"
)

type ClusterServiceInterface interface {
	Cluster(activities []plan_models.ScoredActivity, numDays int, destCenter plan_models.Coordinates) []plan_models.ActivityCluster
}

type ClusterService struct{}

func NewClusterService() ClusterServiceInterface {
	return &ClusterService{}
}

const clusterRefineRounds = 5

// Cluster partitions the pool into exactly numDays geographic day-buckets.
// Seeding is farthest-point from the strongest candidate and every step is
// deterministic, so the same pool always yields the same partition. The
// partition is geography-only; time budgets are the rebalancer's problem.
func (s *ClusterService) Cluster(activities []plan_models.ScoredActivity, numDays int, destCenter plan_models.Coordinates) []plan_models.ActivityCluster {
	if numDays < 1 {
		numDays = 1
	}

	sorted := make([]plan_models.ScoredActivity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].ID < sorted[j].ID
	})

	centroids := s.seedCentroids(sorted, numDays, destCenter)
	buckets := assignToNearest(sorted, centroids)

	for round := 0; round < clusterRefineRounds; round++ {
		moved := false
		for i := range buckets {
			if c, ok := utils.Barycenter(coordsOf(buckets[i])); ok {
				centroids[i] = c
			}
		}
		next := assignToNearest(sorted, centroids)
		for i := range next {
			if len(next[i]) != len(buckets[i]) {
				moved = true
			}
		}
		buckets = next
		if !moved {
			break
		}
	}

	s.balanceLoosely(buckets, centroids)

	clusters := make([]plan_models.ActivityCluster, numDays)
	for i := range buckets {
		centroid := centroids[i]
		if c, ok := utils.Barycenter(coordsOf(buckets[i])); ok {
			centroid = c
		}
		clusters[i] = plan_models.ActivityCluster{
			Activities: buckets[i],
			Centroid:   centroid,
			SpreadKm:   meanDistanceKm(buckets[i], centroid),
		}
	}

	// Day numbers follow centroid distance from the destination center, so
	// the trip starts central and works outward.
	sort.SliceStable(clusters, func(i, j int) bool {
		return utils.HaversineKm(clusters[i].Centroid, destCenter) <
			utils.HaversineKm(clusters[j].Centroid, destCenter)
	})
	for i := range clusters {
		clusters[i].Day = i + 1
	}
	return clusters
}

func (s *ClusterService) seedCentroids(sorted []plan_models.ScoredActivity, numDays int, destCenter plan_models.Coordinates) []plan_models.Coordinates {
	centroids := make([]plan_models.Coordinates, 0, numDays)
	if len(sorted) == 0 {
		for i := 0; i < numDays; i++ {
			centroids = append(centroids, destCenter)
		}
		return centroids
	}

	centroids = append(centroids, sorted[0].Coords)
	for len(centroids) < numDays {
		bestIdx := -1
		bestDist := -1.0
		for i, a := range sorted {
			minDist := minDistanceToAny(a.Coords, centroids)
			if minDist > bestDist {
				bestDist = minDist
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			centroids = append(centroids, destCenter)
			continue
		}
		centroids = append(centroids, sorted[bestIdx].Coords)
	}
	return centroids
}

// balanceLoosely trims clusters that hold far more than their share, moving
// their most peripheral members to the nearest under-filled cluster. This is
// intentionally loose; geography still wins over equality.
func (s *ClusterService) balanceLoosely(buckets [][]plan_models.ScoredActivity, centroids []plan_models.Coordinates) {
	total := 0
	for _, b := range buckets {
		total += len(b)
	}
	if total == 0 || len(buckets) < 2 {
		return
	}
	maxPerBucket := (total+len(buckets)-1)/len(buckets) + 2

	for i := range buckets {
		for iter := 0; len(buckets[i]) > maxPerBucket && iter < phaseIterationCap; iter++ {
			victim := farthestFrom(buckets[i], centroids[i])

			target := -1
			bestDist := -1.0
			for j := range buckets {
				if j == i || len(buckets[j]) >= maxPerBucket {
					continue
				}
				d := utils.HaversineKm(buckets[i][victim].Coords, centroids[j])
				if target == -1 || d < bestDist {
					target = j
					bestDist = d
				}
			}
			if target == -1 {
				break
			}
			buckets[target] = append(buckets[target], buckets[i][victim])
			buckets[i] = append(buckets[i][:victim], buckets[i][victim+1:]...)
		}
	}
}

func assignToNearest(sorted []plan_models.ScoredActivity, centroids []plan_models.Coordinates) [][]plan_models.ScoredActivity {
	buckets := make([][]plan_models.ScoredActivity, len(centroids))
	for _, a := range sorted {
		best := 0
		bestDist := utils.HaversineKm(a.Coords, centroids[0])
		for i := 1; i < len(centroids); i++ {
			if d := utils.HaversineKm(a.Coords, centroids[i]); d < bestDist {
				best = i
				bestDist = d
			}
		}
		buckets[best] = append(buckets[best], a)
	}
	return buckets
}

func minDistanceToAny(c plan_models.Coordinates, centroids []plan_models.Coordinates) float64 {
	min := -1.0
	for _, ct := range centroids {
		d := utils.HaversineKm(c, ct)
		if min < 0 || d < min {
			min = d
		}
	}
	return min
}

func farthestFrom(bucket []plan_models.ScoredActivity, centroid plan_models.Coordinates) int {
	idx := 0
	best := -1.0
	for i, a := range bucket {
		if d := utils.HaversineKm(a.Coords, centroid); d > best {
			best = d
			idx = i
		}
	}
	return idx
}

func coordsOf(bucket []plan_models.ScoredActivity) []plan_models.Coordinates {
	out := make([]plan_models.Coordinates, 0, len(bucket))
	for _, a := range bucket {
		out = append(out, a.Coords)
	}
	return out
}

func meanDistanceKm(bucket []plan_models.ScoredActivity, centroid plan_models.Coordinates) float64 {
	if len(bucket) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range bucket {
		sum += utils.HaversineKm(a.Coords, centroid)
	}
	return sum / float64(len(bucket))
}
