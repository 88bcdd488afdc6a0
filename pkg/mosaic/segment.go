package mosaic

import (
	"context"
	"io"
	"math"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/pixtile/pixtile/pkg/errors"
	"github.com/pixtile/pixtile/pkg/raster"
)

// Default segmentation parameters.
const (
	DefaultIterations  = 30
	DefaultLambdaStart = 2.0
	DefaultLambdaFloor = 0.02
	DefaultRadiusFloor = 2.0 // in units of S
	DefaultThreshold   = 0.001
)

// Config controls a segmentation run.
type Config struct {
	// Superpixels is M, the number of regions.
	Superpixels int `json:"superpixels"`

	// Iterations caps the relaxation loop.
	Iterations int `json:"iterations,omitempty"`

	// Decay selects the annealing law, geometric or linear.
	Decay string `json:"decay,omitempty"`

	// LambdaStart and LambdaFloor bound the spatial weight λ(t).
	LambdaStart float64 `json:"lambda_start,omitempty"`
	LambdaFloor float64 `json:"lambda_floor,omitempty"`

	// RadiusFloor is the final search radius in units of the lattice
	// spacing S. The starting radius is always the full grid extent.
	RadiusFloor float64 `json:"radius_floor,omitempty"`

	// Threshold is the changed-cell fraction below which the loop stops.
	Threshold float64 `json:"threshold,omitempty"`

	// Workers bounds the worker pool. Defaults to GOMAXPROCS. The result
	// does not depend on it.
	Workers int `json:"workers,omitempty"`

	// Logger receives per-iteration progress. Defaults to a discard logger.
	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks the configuration against the plane
// dimensions and fills in defaults. All configuration errors surface here,
// before any iteration runs. Idempotent.
func (c *Config) ValidateAndSetDefaults(w, h int) error {
	if c.validated {
		return nil
	}
	if w <= 0 || h <= 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "grid must be non-empty, got %dx%d", w, h)
	}
	if c.Superpixels <= 0 {
		return errors.New(errors.ErrCodeInvalidSuperpixels, "superpixel count must be positive, got %d", c.Superpixels)
	}
	if c.Superpixels > w*h {
		return errors.New(errors.ErrCodeInvalidSuperpixels,
			"superpixel count %d exceeds cell count %d (%dx%d)", c.Superpixels, w*h, w, h)
	}

	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidSchedule, "iterations must be positive, got %d", c.Iterations)
	}
	if c.Decay == "" {
		c.Decay = DecayGeometric
	}
	if !ValidDecays[c.Decay] {
		return errors.New(errors.ErrCodeInvalidSchedule, "unknown decay law %q (must be geometric or linear)", c.Decay)
	}
	if c.LambdaStart == 0 {
		c.LambdaStart = DefaultLambdaStart
	}
	if c.LambdaFloor == 0 {
		c.LambdaFloor = DefaultLambdaFloor
	}
	if c.LambdaStart < 0 || c.LambdaFloor < 0 || c.LambdaStart < c.LambdaFloor {
		return errors.New(errors.ErrCodeInvalidSchedule,
			"lambda must decay: start %v, floor %v", c.LambdaStart, c.LambdaFloor)
	}
	if c.RadiusFloor == 0 {
		c.RadiusFloor = DefaultRadiusFloor
	}
	if c.RadiusFloor <= 0 {
		return errors.New(errors.ErrCodeInvalidSchedule, "radius floor must be positive, got %v", c.RadiusFloor)
	}
	if c.Threshold == 0 {
		c.Threshold = DefaultThreshold
	}
	if c.Threshold < 0 || c.Threshold >= 1 {
		return errors.New(errors.ErrCodeInvalidSchedule, "threshold must be in [0, 1), got %v", c.Threshold)
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must be positive, got %d", c.Workers)
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	c.validated = true
	return nil
}

// Result is a completed segmentation.
type Result struct {
	W int `json:"w"`
	H int `json:"h"`

	// Labels maps each cell (row-major) to its owning site index.
	Labels []int `json:"labels"`

	// Sites is the final lattice state.
	Sites []Site `json:"sites"`

	// Iterations is how many relaxation iterations actually ran.
	Iterations int `json:"iterations"`

	// Converged reports whether the loop stopped below the change
	// threshold rather than at the iteration cap.
	Converged bool `json:"converged"`
}

// Segment runs the full relaxation over the plane.
//
// Cancellation is honored between phases; a running phase always completes,
// so a partial grid never escapes.
func Segment(ctx context.Context, plane *raster.Plane, cfg Config) (*Result, error) {
	if err := cfg.ValidateAndSetDefaults(plane.W, plane.H); err != nil {
		return nil, err
	}

	lat := NewLattice(plane, cfg.Superpixels)
	radiusStart := math.Max(float64(plane.W), float64(plane.H))
	radiusFloor := math.Min(cfg.RadiusFloor*lat.Spacing, radiusStart)
	sched, err := NewSchedule(cfg.Iterations, cfg.Decay, cfg.LambdaStart, cfg.LambdaFloor, radiusStart, radiusFloor)
	if err != nil {
		return nil, err
	}

	n := plane.Len()
	labels := make([]int, n)
	next := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	result := &Result{W: plane.W, H: plane.H}
	for t := 0; t < cfg.Iterations; t++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lambda := sched.Lambda(t)
		radius := sched.Radius(t)
		grid := newBucketGrid(lat)

		changed, err := assignPass(ctx, plane, lat, grid, lambda, radius, labels, next, cfg.Workers)
		if err != nil {
			return nil, err
		}
		labels, next = next, labels

		if err := updatePass(ctx, plane, lat, labels, cfg.Workers); err != nil {
			return nil, err
		}

		frac := float64(changed) / float64(n)
		cfg.Logger.Debug("iteration complete",
			"t", t,
			"lambda", lambda,
			"radius", radius,
			"changed", changed,
			"fraction", frac)

		result.Iterations = t + 1
		if frac < cfg.Threshold {
			result.Converged = true
			break
		}
	}

	if !result.Converged {
		cfg.Logger.Warn("segmentation hit iteration cap without converging",
			"iterations", cfg.Iterations,
			"threshold", cfg.Threshold)
	}

	result.Labels = labels
	result.Sites = lat.Sites
	return result, nil
}
