package mosaic

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/pixtile/pixtile/pkg/colorspace"
	"github.com/pixtile/pixtile/pkg/raster"
)

// reduceChunks is the fixed number of work chunks for both phases. Keeping
// it independent of the worker count fixes the floating-point reduction
// order, so results are identical for any parallelism.
const reduceChunks = 64

// chunkCount returns the number of chunks for n cells.
func chunkCount(n int) int {
	if n < reduceChunks {
		return n
	}
	return reduceChunks
}

// chunkBounds returns the half-open cell range [lo, hi) of chunk i of c.
func chunkBounds(n, c, i int) (int, int) {
	lo := i * n / c
	hi := (i + 1) * n / c
	return lo, hi
}

// cost is the assignment objective: perceptual color distance plus the
// λ-weighted shape-metric distance of the cell from the site centroid.
func cost(cell colorspace.Lab, cx, cy float64, s *Site, lambda float64) float64 {
	dx := cx - s.X
	dy := cy - s.Y
	return colorspace.Distance(cell, s.Color) + lambda*math.Sqrt(s.Shape.Mahalanobis(dx, dy))
}

// assignPass reassigns every cell to its cheapest site within radius,
// writing owners into next and returning how many cells changed owner.
// Cells read only the previous iteration's lattice snapshot, so chunks are
// independent.
func assignPass(ctx context.Context, plane *raster.Plane, lat *Lattice, grid *bucketGrid, lambda, radius float64, prev, next []int, workers int) (int, error) {
	n := plane.Len()
	chunks := chunkCount(n)
	changed := make([]int, chunks)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for ci := 0; ci < chunks; ci++ {
		g.Go(func() error {
			lo, hi := chunkBounds(n, chunks, ci)
			for idx := lo; idx < hi; idx++ {
				x := idx % plane.W
				y := idx / plane.W
				cx := float64(x) + 0.5
				cy := float64(y) + 0.5
				cell := plane.Pix[idx]

				best := -1
				bestCost := math.Inf(1)
				r2 := radius * radius
				grid.visit(cx, cy, radius, func(si int) {
					s := &lat.Sites[si]
					dx := cx - s.X
					dy := cy - s.Y
					if dx*dx+dy*dy > r2 {
						return
					}
					c := cost(cell, cx, cy, s, lambda)
					if c < bestCost || (c == bestCost && si < best) {
						bestCost = c
						best = si
					}
				})

				// A shrunken radius can strand a cell with no candidate.
				// Fall back to the nearest centroid so the partition
				// invariant holds unconditionally.
				if best == -1 {
					best = nearestSite(lat, cx, cy)
				}

				next[idx] = best
				if prev[idx] != best {
					changed[ci]++
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, c := range changed {
		total += c
	}
	return total, nil
}

// nearestSite scans all sites for the closest centroid, lowest index on ties.
func nearestSite(lat *Lattice, cx, cy float64) int {
	best := 0
	bestD := math.Inf(1)
	for i := range lat.Sites {
		dx := cx - lat.Sites[i].X
		dy := cy - lat.Sites[i].Y
		d := dx*dx + dy*dy
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}
