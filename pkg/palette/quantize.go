package palette

import (
	"math"

	"github.com/pixtile/pixtile/pkg/colorspace"
)

const (
	// lloydMaxIterations caps the refinement loop. On hitting the cap the
	// current (best-so-far) partition is returned; cost is monotone
	// non-increasing, so the last iterate is also the best.
	lloydMaxIterations = 100

	// lloydEpsilon stops iteration once no center moves further than this.
	lloydEpsilon = 1e-9
)

// weightedLloyd runs deterministic weighted k-means over the samples.
// Seeding is farthest-point (see seedCenters), assignment breaks ties to
// the lowest center index, and empty clusters keep their previous center.
// No randomness anywhere: identical input always gives identical output.
func weightedLloyd(samples []Sample, k int) ([]colorspace.Lab, []int) {
	centers := seedCenters(samples, k)
	index := make([]int, len(samples))

	for iter := 0; iter < lloydMaxIterations; iter++ {
		// Assign samples to the nearest center.
		for i, s := range samples {
			index[i] = nearestEntry(s.Color, centers)
		}

		// Recompute centers as weighted means of their members.
		sumL := make([]float64, k)
		sumA := make([]float64, k)
		sumB := make([]float64, k)
		sumW := make([]float64, k)
		for i, s := range samples {
			ci := index[i]
			sumL[ci] += s.Color.L * s.Weight
			sumA[ci] += s.Color.A * s.Weight
			sumB[ci] += s.Color.B * s.Weight
			sumW[ci] += s.Weight
		}

		moved := 0.0
		for ci := 0; ci < k; ci++ {
			if sumW[ci] <= 0 {
				continue // empty cluster keeps its center
			}
			next := colorspace.Lab{
				L: sumL[ci] / sumW[ci],
				A: sumA[ci] / sumW[ci],
				B: sumB[ci] / sumW[ci],
			}
			moved = math.Max(moved, colorspace.Distance(centers[ci], next))
			centers[ci] = next
		}

		if moved < lloydEpsilon {
			break
		}
	}

	// Final assignment against the settled centers.
	for i, s := range samples {
		index[i] = nearestEntry(s.Color, centers)
	}
	return centers, index
}
