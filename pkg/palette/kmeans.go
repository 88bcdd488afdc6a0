package palette

import (
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/pixtile/pixtile/pkg/colorspace"
	"github.com/pixtile/pixtile/pkg/errors"
)

// kmeansPartition quantizes via muesli/kmeans. The library seeds its
// clusters randomly, so this method trades reproducibility for the
// occasional better local optimum. Weights are approximated by repeating
// heavy samples in the dataset.
func kmeansPartition(samples []Sample, k int) ([]colorspace.Lab, []int, error) {
	var maxW float64
	for _, s := range samples {
		if s.Weight > maxW {
			maxW = s.Weight
		}
	}

	dataset := make(clusters.Observations, 0, len(samples))
	for _, s := range samples {
		repeats := 1
		if maxW > 0 && s.Weight > 0 {
			// Up to 8 repeats, proportional to relative weight.
			repeats = 1 + int(7*s.Weight/maxW)
		}
		obs := clusters.Coordinates{s.Color.L, s.Color.A, s.Color.B}
		for r := 0; r < repeats; r++ {
			dataset = append(dataset, obs)
		}
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "kmeans partition failed")
	}
	if len(cc) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInternal, "kmeans produced no clusters")
	}

	centers := make([]colorspace.Lab, len(cc))
	for i, c := range cc {
		centers[i] = colorspace.Lab{L: c.Center[0], A: c.Center[1], B: c.Center[2]}
	}

	index := make([]int, len(samples))
	for i, s := range samples {
		index[i] = nearestEntry(s.Color, centers)
	}
	return centers, index, nil
}
