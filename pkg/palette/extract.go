package palette

import (
	"image"
	"image/color"
	"math"

	"github.com/cenkalti/dominantcolor"

	"github.com/pixtile/pixtile/pkg/colorspace"
	"github.com/pixtile/pixtile/pkg/errors"
)

// ExtractFromImage pulls k representative colors straight from an image,
// without segmentation. Dominant-color candidates are scored for coverage
// and a diverse weighted subset is selected. Used by the palette inspection
// command.
func ExtractFromImage(img image.Image, k int) ([]colorspace.Lab, error) {
	if k <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "palette size must be positive, got %d", k)
	}

	nCandidates := k * 8
	if nCandidates < 24 {
		nCandidates = 24
	}
	candidates := dominantcolor.FindWeight(img, nCandidates)
	if len(candidates) == 0 {
		candidates = append(candidates, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1.0,
		})
	}

	samples := make([]Sample, 0, len(candidates))
	for _, c := range candidates {
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		samples = append(samples, Sample{Color: colorspace.ToLab(c.RGBA), Weight: w})
	}

	return selectDiverse(samples, k), nil
}

// selectDiverse greedily picks k samples balancing coverage weight against
// distance from the already-selected set. The heaviest sample seeds the
// selection so dominant tones always survive.
func selectDiverse(samples []Sample, k int) []colorspace.Lab {
	if k > len(samples) {
		k = len(samples)
	}

	maxW := 0.0
	for _, s := range samples {
		if s.Weight > maxW {
			maxW = s.Weight
		}
	}
	if maxW <= 0 {
		maxW = 1
	}

	seed := 0
	for i := 1; i < len(samples); i++ {
		if samples[i].Weight > samples[seed].Weight {
			seed = i
		}
	}

	chosen := []int{seed}
	taken := make([]bool, len(samples))
	taken[seed] = true

	for len(chosen) < k {
		best := -1
		bestScore := -1.0
		for i, s := range samples {
			if taken[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, c := range chosen {
				if d := colorspace.DistanceSq(s.Color, samples[c].Color); d < minD2 {
					minD2 = d
				}
			}
			normW := s.Weight / maxW
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(normW))
			if score > bestScore {
				bestScore = score
				best = i
			}
		}
		if best < 0 {
			break
		}
		taken[best] = true
		chosen = append(chosen, best)
	}

	out := make([]colorspace.Lab, len(chosen))
	for i, idx := range chosen {
		out[i] = samples[idx].Color
	}
	return out
}
