package render

import (
	"github.com/pixtile/pixtile/pkg/colorspace"
	"github.com/pixtile/pixtile/pkg/errors"
	"github.com/pixtile/pixtile/pkg/mosaic"
	"github.com/pixtile/pixtile/pkg/palette"
)

// Mosaic is the render input: a W×H grid of palette indices plus the color
// table.
type Mosaic struct {
	W, H int

	// Index maps each cell (row-major) to a color table entry.
	Index []int

	// Colors is the color table.
	Colors []colorspace.Lab

	// Names labels the color table entries when a fixed palette was
	// snapped; empty otherwise.
	Names []string
}

// Compose joins a segmentation with a quantization: each cell takes the
// palette entry of its owning site.
func Compose(seg *mosaic.Result, q *palette.Quantized) (*Mosaic, error) {
	if len(q.Index) != len(seg.Sites) {
		return nil, errors.New(errors.ErrCodeInternal,
			"quantization covers %d sites, segmentation has %d", len(q.Index), len(seg.Sites))
	}

	m := &Mosaic{
		W:      seg.W,
		H:      seg.H,
		Index:  make([]int, len(seg.Labels)),
		Colors: q.Colors,
		Names:  q.Names,
	}
	for i, site := range seg.Labels {
		m.Index[i] = q.Index[site]
	}
	return m, nil
}

// Usage counts how many cells use each color table entry.
func (m *Mosaic) Usage() []int {
	counts := make([]int, len(m.Colors))
	for _, idx := range m.Index {
		counts[idx]++
	}
	return counts
}
