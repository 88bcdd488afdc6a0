// Package mosaic implements content-adaptive superpixel segmentation over a
// Lab cell plane.
//
// The engine alternates two phases under an annealing schedule:
//
//  1. Assignment: every cell picks the cheapest superpixel within the
//     current search radius, where cost combines color difference and a
//     shape-aware (Mahalanobis) spatial distance.
//  2. Update: superpixel centroids, mean colors, and shape tensors are
//     recomputed from their member cells.
//
// Early iterations weight the spatial term heavily, producing compact
// near-Voronoi regions; as the schedule decays, color takes over and region
// boundaries lock onto image content. The shape tensor lets elongated
// regions form along edges instead of staying round.
//
// Both phases are data-parallel. Reduction runs over a fixed number of
// chunks merged in a fixed order, so results are identical for any worker
// count.
package mosaic
