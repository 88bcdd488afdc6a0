package mosaic

import (
	"math"

	"github.com/pixtile/pixtile/pkg/colorspace"
	"github.com/pixtile/pixtile/pkg/raster"
)

// Site is the state of one superpixel.
type Site struct {
	X     float64        `json:"x"` // centroid, continuous cell coordinates
	Y     float64        `json:"y"`
	Color colorspace.Lab `json:"color"` // mean Lab of member cells
	Count int            `json:"count"` // member cells after the last update
	Shape Tensor         `json:"shape"`
}

// Lattice holds the superpixel sites over a W×H cell grid.
type Lattice struct {
	W, H    int
	Spacing float64 // S = sqrt(W·H/M), the mean inter-site distance
	Sites   []Site
}

// NewLattice seeds M sites on a near-square grid over a w×h plane. Each
// site starts at its grid cell center with the color of the nearest plane
// cell, an isotropic shape, and zero members.
func NewLattice(plane *raster.Plane, m int) *Lattice {
	w, h := plane.W, plane.H
	spacing := math.Sqrt(float64(w*h) / float64(m))

	// As-square-as-possible rows×cols covering exactly m sites.
	rows := int(math.Round(math.Sqrt(float64(m) * float64(h) / float64(w))))
	if rows < 1 {
		rows = 1
	}
	if rows > m {
		rows = m
	}
	cols := (m + rows - 1) / rows

	lat := &Lattice{W: w, H: h, Spacing: spacing, Sites: make([]Site, 0, m)}
	for r := 0; r < rows && len(lat.Sites) < m; r++ {
		for c := 0; c < cols && len(lat.Sites) < m; c++ {
			x := (float64(c) + 0.5) * float64(w) / float64(cols)
			y := (float64(r) + 0.5) * float64(h) / float64(rows)
			cx := clampInt(int(x), 0, w-1)
			cy := clampInt(int(y), 0, h-1)
			lat.Sites = append(lat.Sites, Site{
				X:     x,
				Y:     y,
				Color: plane.At(cx, cy),
				Shape: IsotropicTensor(spacing),
			})
		}
	}
	return lat
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// bucketGrid indexes sites by position for radius-bounded candidate lookup.
// Bucket size is the lattice spacing, so a lookup touches O((r/S)²) buckets.
type bucketGrid struct {
	cell       float64
	cols, rows int
	bins       [][]int
}

// newBucketGrid builds the index from the current site centroids. Site
// indices are appended in ascending order, keeping iteration deterministic.
func newBucketGrid(lat *Lattice) *bucketGrid {
	cell := lat.Spacing
	if cell < 1 {
		cell = 1
	}
	cols := int(math.Ceil(float64(lat.W)/cell)) + 1
	rows := int(math.Ceil(float64(lat.H)/cell)) + 1

	g := &bucketGrid{
		cell: cell,
		cols: cols,
		rows: rows,
		bins: make([][]int, cols*rows),
	}
	for i, s := range lat.Sites {
		bx := clampInt(int(s.X/cell), 0, cols-1)
		by := clampInt(int(s.Y/cell), 0, rows-1)
		bin := by*cols + bx
		g.bins[bin] = append(g.bins[bin], i)
	}
	return g
}

// visit calls fn for every site whose bucket overlaps the radius box around
// (x, y). Callers still check the exact distance; this only prunes.
func (g *bucketGrid) visit(x, y, radius float64, fn func(site int)) {
	bx0 := clampInt(int((x-radius)/g.cell), 0, g.cols-1)
	bx1 := clampInt(int((x+radius)/g.cell), 0, g.cols-1)
	by0 := clampInt(int((y-radius)/g.cell), 0, g.rows-1)
	by1 := clampInt(int((y+radius)/g.cell), 0, g.rows-1)

	for by := by0; by <= by1; by++ {
		for bx := bx0; bx <= bx1; bx++ {
			for _, i := range g.bins[by*g.cols+bx] {
				fn(i)
			}
		}
	}
}
