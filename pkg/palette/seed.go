package palette

import (
	"github.com/pixtile/pixtile/pkg/colorspace"
)

// seedCenters picks k initial centers deterministically. The first center
// is the weighted mean of all samples; each subsequent center is the sample
// maximizing weighted squared distance to its nearest already-chosen
// center. Ties resolve to the lowest sample index.
func seedCenters(samples []Sample, k int) []colorspace.Lab {
	centers := make([]colorspace.Lab, 0, k)

	var sumL, sumA, sumB, sumW float64
	for _, s := range samples {
		sumL += s.Color.L * s.Weight
		sumA += s.Color.A * s.Weight
		sumB += s.Color.B * s.Weight
		sumW += s.Weight
	}
	if sumW <= 0 {
		// All-zero weights: fall back to unweighted mean.
		for _, s := range samples {
			sumL += s.Color.L
			sumA += s.Color.A
			sumB += s.Color.B
		}
		sumW = float64(len(samples))
	}
	centers = append(centers, colorspace.Lab{
		L: sumL / sumW,
		A: sumA / sumW,
		B: sumB / sumW,
	})

	// nearest[i] tracks each sample's squared distance to its closest
	// chosen center, updated incrementally as centers are added.
	nearest := make([]float64, len(samples))
	for i, s := range samples {
		nearest[i] = colorspace.DistanceSq(s.Color, centers[0])
	}

	for len(centers) < k {
		best := -1
		bestScore := -1.0
		for i, s := range samples {
			w := s.Weight
			if w <= 0 {
				continue
			}
			if score := w * nearest[i]; score > bestScore {
				bestScore = score
				best = i
			}
		}
		if best < 0 {
			// Every sample has zero weight; pick by distance alone.
			for i := range samples {
				if nearest[i] > bestScore {
					bestScore = nearest[i]
					best = i
				}
			}
		}
		if best < 0 {
			best = 0
		}

		c := samples[best].Color
		centers = append(centers, c)
		for i, s := range samples {
			if d := colorspace.DistanceSq(s.Color, c); d < nearest[i] {
				nearest[i] = d
			}
		}
	}
	return centers
}
