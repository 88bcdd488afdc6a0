package mosaic

import (
	"math"

	"github.com/pixtile/pixtile/pkg/errors"
)

// Decay laws for the annealing schedule.
const (
	DecayGeometric = "geometric"
	DecayLinear    = "linear"
)

// ValidDecays is the set of supported decay laws.
var ValidDecays = map[string]bool{
	DecayGeometric: true,
	DecayLinear:    true,
}

// Schedule drives the annealing of the segmentation loop. It maps an
// iteration number to the spatial weight λ(t) and the search radius(t),
// both decaying from a start value to a floor over the horizon.
//
// Lambda and Radius are pure functions of t: calling them in any order, any
// number of times, gives the same values.
type Schedule struct {
	Iterations  int
	Decay       string
	LambdaStart float64
	LambdaFloor float64
	RadiusStart float64
	RadiusFloor float64
}

// NewSchedule validates the parameters and returns a schedule.
func NewSchedule(iterations int, decay string, lambdaStart, lambdaFloor, radiusStart, radiusFloor float64) (*Schedule, error) {
	if iterations <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidSchedule, "iterations must be positive, got %d", iterations)
	}
	if !ValidDecays[decay] {
		return nil, errors.New(errors.ErrCodeInvalidSchedule, "unknown decay law %q (must be geometric or linear)", decay)
	}
	if lambdaStart < lambdaFloor || lambdaFloor < 0 {
		return nil, errors.New(errors.ErrCodeInvalidSchedule, "lambda must decay: start %v, floor %v", lambdaStart, lambdaFloor)
	}
	if radiusStart < radiusFloor || radiusFloor <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidSchedule, "radius must decay to a positive floor: start %v, floor %v", radiusStart, radiusFloor)
	}
	return &Schedule{
		Iterations:  iterations,
		Decay:       decay,
		LambdaStart: lambdaStart,
		LambdaFloor: lambdaFloor,
		RadiusStart: radiusStart,
		RadiusFloor: radiusFloor,
	}, nil
}

// Lambda returns the spatial weight at iteration t.
func (s *Schedule) Lambda(t int) float64 {
	return s.decay(t, s.LambdaStart, s.LambdaFloor)
}

// Radius returns the search radius at iteration t, in cell units.
func (s *Schedule) Radius(t int) float64 {
	return s.decay(t, s.RadiusStart, s.RadiusFloor)
}

// decay interpolates between start and floor according to the decay law.
// Values at and past the horizon clamp to the floor.
func (s *Schedule) decay(t int, start, floor float64) float64 {
	if t <= 0 {
		return start
	}
	if t >= s.Iterations-1 || start == floor {
		return floor
	}

	switch s.Decay {
	case DecayLinear:
		frac := float64(t) / float64(s.Iterations-1)
		return start + (floor-start)*frac
	default:
		// Geometric: start·f^t with f chosen so the floor is reached
		// exactly at the horizon.
		if floor <= 0 {
			// A zero floor has no finite geometric factor; fall back
			// to decaying toward a vanishing fraction of start.
			floor = start * 1e-6
		}
		f := math.Pow(floor/start, 1/float64(s.Iterations-1))
		v := start * math.Pow(f, float64(t))
		return math.Max(v, floor)
	}
}
