package analysis

import (
	"math"
	"math/rand"
)

const (
	// kmeansSeed fixes the partition so identical input always yields
	// identical cluster assignments
	kmeansSeed    = 42
	kmeansMaxIter = 100
)

// kmeans partitions rows into k clusters. Callers must guarantee
// len(rows) >= k. Returns per-row labels and the final centroids.
func kmeans(rows [][]float64, k int) ([]int, [][]float64) {
	rng := rand.New(rand.NewSource(kmeansSeed))

	// Farthest-point initialization: a seeded first pick, then each next
	// centroid is the row farthest from all chosen so far. Spreads the
	// seeds across separated groups and stays fully deterministic.
	centroids := make([][]float64, 0, k)
	first := rows[rng.Intn(len(rows))]
	centroids = append(centroids, append([]float64(nil), first...))
	minDist := make([]float64, len(rows))
	for i, row := range rows {
		minDist[i] = squaredDistance(row, first)
	}
	for len(centroids) < k {
		next := 0
		for i := 1; i < len(rows); i++ {
			if minDist[i] > minDist[next] {
				next = i
			}
		}
		centroids = append(centroids, append([]float64(nil), rows[next]...))
		for i, row := range rows {
			if d := squaredDistance(row, rows[next]); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	labels := make([]int, len(rows))
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for r, row := range rows {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				if d := squaredDistance(row, centroid); d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[r] != best {
				labels[r] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids. A cluster that lost every member keeps its
		// previous position rather than collapsing to the origin.
		dims := len(rows[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dims)
		}
		for r, row := range rows {
			counts[labels[r]]++
			for d, v := range row {
				sums[labels[r]][d] += v
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			for d := range centroids[c] {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	return labels, centroids
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
