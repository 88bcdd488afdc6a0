package mosaic

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pixtile/pixtile/pkg/raster"
)

// accumulator collects the per-site sums needed to recompute centroid,
// mean color, and shape covariance in one pass over the cells.
type accumulator struct {
	count   int
	x, y    float64
	l, a, b float64
	xx, xy  float64
	yy      float64
}

func (acc *accumulator) add(o *accumulator) {
	acc.count += o.count
	acc.x += o.x
	acc.y += o.y
	acc.l += o.l
	acc.a += o.a
	acc.b += o.b
	acc.xx += o.xx
	acc.xy += o.xy
	acc.yy += o.yy
}

// updatePass recomputes all site state from the current ownership. Cells
// scatter into per-chunk partial accumulators in parallel; partials merge
// sequentially in chunk order, then sites update serially. The fixed merge
// order keeps float summation deterministic.
//
// Sites that lost all members keep their previous centroid and color and
// revert to the isotropic shape, so they can recapture cells later.
func updatePass(ctx context.Context, plane *raster.Plane, lat *Lattice, labels []int, workers int) error {
	n := plane.Len()
	m := len(lat.Sites)
	chunks := chunkCount(n)
	partials := make([][]accumulator, chunks)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for ci := 0; ci < chunks; ci++ {
		g.Go(func() error {
			acc := make([]accumulator, m)
			lo, hi := chunkBounds(n, chunks, ci)
			for idx := lo; idx < hi; idx++ {
				si := labels[idx]
				cx := float64(idx%plane.W) + 0.5
				cy := float64(idx/plane.W) + 0.5
				cell := plane.Pix[idx]

				a := &acc[si]
				a.count++
				a.x += cx
				a.y += cy
				a.l += cell.L
				a.a += cell.A
				a.b += cell.B
				a.xx += cx * cx
				a.xy += cx * cy
				a.yy += cy * cy
			}
			partials[ci] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Sequential merge in chunk order.
	total := make([]accumulator, m)
	for ci := 0; ci < chunks; ci++ {
		for si := range total {
			total[si].add(&partials[ci][si])
		}
	}

	s := lat.Spacing
	for si := range lat.Sites {
		site := &lat.Sites[si]
		acc := &total[si]
		site.Count = acc.count
		if acc.count == 0 {
			site.Shape = IsotropicTensor(s)
			continue
		}

		inv := 1 / float64(acc.count)
		mx := acc.x * inv
		my := acc.y * inv
		site.X = mx
		site.Y = my
		site.Color.L = acc.l * inv
		site.Color.A = acc.a * inv
		site.Color.B = acc.b * inv

		// Covariance about the centroid from raw second moments.
		cxx := acc.xx*inv - mx*mx
		cxy := acc.xy*inv - mx*my
		cyy := acc.yy*inv - my*my
		site.Shape = ShapeTensor(cxx, cxy, cyy, acc.count, s)
	}
	return nil
}
