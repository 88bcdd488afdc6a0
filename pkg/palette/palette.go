// Package palette reduces a set of weighted colors to a limited color
// table.
//
// The input is typically the mean colors of segmented superpixels weighted
// by their cell counts, so large regions pull the palette harder than small
// ones. The default method is a deterministic weighted k-means in Lab
// space; the "kmeans" method delegates to muesli/kmeans, which randomizes
// its seeding and is therefore not reproducible across runs.
package palette

import (
	"sort"

	"github.com/pixtile/pixtile/pkg/colorspace"
	"github.com/pixtile/pixtile/pkg/errors"
	"github.com/pixtile/pixtile/pkg/mosaic"
)

// Quantization methods.
const (
	MethodWeighted = "weighted"
	MethodKMeans   = "kmeans"
)

// ValidMethods is the set of supported quantization methods.
var ValidMethods = map[string]bool{
	MethodWeighted: true,
	MethodKMeans:   true,
}

// Sample is one weighted input color.
type Sample struct {
	Color  colorspace.Lab
	Weight float64
}

// FromSites converts segmentation sites to quantizer input. Sites that own
// no cells carry zero weight and cannot influence the palette.
func FromSites(sites []mosaic.Site) []Sample {
	samples := make([]Sample, len(sites))
	for i, s := range sites {
		samples[i] = Sample{Color: s.Color, Weight: float64(s.Count)}
	}
	return samples
}

// Quantized is a completed quantization.
type Quantized struct {
	// Colors is the color table, sorted dark to bright. Its length is
	// min(requested, len(samples)).
	Colors []colorspace.Lab `json:"colors"`

	// Names holds fixed-palette entry names after snapping, empty otherwise.
	Names []string `json:"names,omitempty"`

	// Index maps each input sample to its color table entry.
	Index []int `json:"index"`
}

// Quantize reduces samples to at most c colors using the given method.
func Quantize(samples []Sample, c int, method string) (*Quantized, error) {
	if c <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "palette size must be positive, got %d", c)
	}
	if len(samples) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "no colors to quantize")
	}
	if method == "" {
		method = MethodWeighted
	}
	if !ValidMethods[method] {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "unknown quantization method %q (must be weighted or kmeans)", method)
	}

	k := c
	if k >= len(samples) {
		// One entry per sample: the mapping is the identity.
		return identityQuantization(samples), nil
	}

	var centers []colorspace.Lab
	var index []int
	var err error
	switch method {
	case MethodKMeans:
		centers, index, err = kmeansPartition(samples, k)
	default:
		centers, index = weightedLloyd(samples, k)
	}
	if err != nil {
		return nil, err
	}

	q := &Quantized{Colors: centers, Index: index}
	q.sortDarkToBright()
	return q, nil
}

// identityQuantization gives every sample its own entry.
func identityQuantization(samples []Sample) *Quantized {
	q := &Quantized{
		Colors: make([]colorspace.Lab, len(samples)),
		Index:  make([]int, len(samples)),
	}
	for i, s := range samples {
		q.Colors[i] = s.Color
		q.Index[i] = i
	}
	q.sortDarkToBright()
	return q
}

// sortDarkToBright orders the color table by lightness and remaps Index.
// Stable ordering keeps legends and cache keys reproducible.
func (q *Quantized) sortDarkToBright() {
	order := make([]int, len(q.Colors))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := q.Colors[order[a]], q.Colors[order[b]]
		if ca.L != cb.L {
			return ca.L < cb.L
		}
		if ca.A != cb.A {
			return ca.A < cb.A
		}
		return ca.B < cb.B
	})

	sorted := make([]colorspace.Lab, len(q.Colors))
	remap := make([]int, len(q.Colors))
	for newIdx, oldIdx := range order {
		sorted[newIdx] = q.Colors[oldIdx]
		remap[oldIdx] = newIdx
	}
	q.Colors = sorted
	for i, old := range q.Index {
		q.Index[i] = remap[old]
	}
	if len(q.Names) == len(remap) {
		names := make([]string, len(q.Names))
		for newIdx, oldIdx := range order {
			names[newIdx] = q.Names[oldIdx]
		}
		q.Names = names
	}
}

// nearestEntry returns the index of the closest color table entry,
// lowest index on ties.
func nearestEntry(c colorspace.Lab, table []colorspace.Lab) int {
	best := 0
	bestD := colorspace.DistanceSq(c, table[0])
	for i := 1; i < len(table); i++ {
		if d := colorspace.DistanceSq(c, table[i]); d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}
