package mosaic

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Tensor is the inverse of a superpixel's 2×2 shape covariance, stored by
// its three distinct elements. It defines the Mahalanobis metric used in
// assignment: distances shrink along the region's long axis and grow across
// it, biasing growth along image structure.
type Tensor struct {
	Ixx float64 `json:"ixx"`
	Ixy float64 `json:"ixy"`
	Iyy float64 `json:"iyy"`
}

const (
	// minEigenFrac floors eigenvalues at this fraction of S² so thin
	// regions cannot collapse the metric.
	minEigenFrac = 0.05

	// maxAnisotropy caps the eigenvalue ratio.
	maxAnisotropy = 9.0
)

// IsotropicTensor returns the metric of a circular region of scale s.
func IsotropicTensor(s float64) Tensor {
	inv := 1 / (s * s)
	return Tensor{Ixx: inv, Iyy: inv}
}

// Mahalanobis evaluates the squared metric distance of offset (dx, dy).
func (t Tensor) Mahalanobis(dx, dy float64) float64 {
	return dx*dx*t.Ixx + 2*dx*dy*t.Ixy + dy*dy*t.Iyy
}

// ShapeTensor builds the metric from raw covariance elements of member cell
// positions. The covariance is eigendecomposed, its eigenvalues floored and
// anisotropy-capped, and the result rescaled so its determinant matches an
// isotropic region of scale s. Degenerate input (too few members, failed
// factorization, vanishing determinant) falls back to the isotropic metric.
func ShapeTensor(cxx, cxy, cyy float64, count int, s float64) Tensor {
	if count < 3 {
		return IsotropicTensor(s)
	}

	sym := mat.NewSymDense(2, []float64{cxx, cxy, cxy, cyy})
	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return IsotropicTensor(s)
	}

	vals := eig.Values(nil) // ascending
	floor := minEigenFrac * s * s
	lo := math.Max(vals[0], floor)
	hi := math.Max(vals[1], floor)
	if hi/lo > maxAnisotropy {
		lo = hi / maxAnisotropy
	}
	if lo <= 0 || math.IsNaN(lo) || math.IsNaN(hi) {
		return IsotropicTensor(s)
	}

	// Rescale so det = s⁴, matching the isotropic metric's scale. The
	// overall spatial weight stays in λ(t).
	k := s * s / math.Sqrt(lo*hi)
	lo *= k
	hi *= k

	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	v0x, v0y := vecs.At(0, 0), vecs.At(1, 0)
	v1x, v1y := vecs.At(0, 1), vecs.At(1, 1)

	// Σ⁻¹ = V diag(1/lo, 1/hi) Vᵀ
	return Tensor{
		Ixx: v0x*v0x/lo + v1x*v1x/hi,
		Ixy: v0x*v0y/lo + v1x*v1y/hi,
		Iyy: v0y*v0y/lo + v1y*v1y/hi,
	}
}
