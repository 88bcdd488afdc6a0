package mosaic

import (
	"math"
	"testing"
)

func TestNewScheduleValidation(t *testing.T) {
	tests := []struct {
		name        string
		iterations  int
		decay       string
		lambdaStart float64
		lambdaFloor float64
		radiusStart float64
		radiusFloor float64
		wantErr     bool
	}{
		{"valid geometric", 30, DecayGeometric, 2.0, 0.02, 100, 5, false},
		{"valid linear", 10, DecayLinear, 1.0, 0.1, 50, 2, false},
		{"zero iterations", 0, DecayGeometric, 2.0, 0.02, 100, 5, true},
		{"unknown decay", 30, "exponential", 2.0, 0.02, 100, 5, true},
		{"lambda grows", 30, DecayGeometric, 0.02, 2.0, 100, 5, true},
		{"negative lambda floor", 30, DecayGeometric, 2.0, -1, 100, 5, true},
		{"zero radius floor", 30, DecayGeometric, 2.0, 0.02, 100, 0, true},
		{"radius grows", 30, DecayGeometric, 2.0, 0.02, 5, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchedule(tt.iterations, tt.decay, tt.lambdaStart, tt.lambdaFloor, tt.radiusStart, tt.radiusFloor)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSchedule error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScheduleEndpoints(t *testing.T) {
	for _, decay := range []string{DecayGeometric, DecayLinear} {
		t.Run(decay, func(t *testing.T) {
			s, err := NewSchedule(20, decay, 2.0, 0.02, 96, 4)
			if err != nil {
				t.Fatalf("NewSchedule error: %v", err)
			}

			if got := s.Lambda(0); got != 2.0 {
				t.Errorf("Lambda(0) = %v, want 2.0", got)
			}
			if got := s.Radius(0); got != 96.0 {
				t.Errorf("Radius(0) = %v, want 96", got)
			}
			if got := s.Lambda(19); math.Abs(got-0.02) > 1e-12 {
				t.Errorf("Lambda(T-1) = %v, want 0.02", got)
			}
			if got := s.Radius(19); math.Abs(got-4.0) > 1e-12 {
				t.Errorf("Radius(T-1) = %v, want 4", got)
			}

			// Past the horizon values clamp to the floor
			if got := s.Lambda(100); got != s.Lambda(19) {
				t.Errorf("Lambda past horizon = %v, want %v", got, s.Lambda(19))
			}
		})
	}
}

func TestScheduleMonotoneDecay(t *testing.T) {
	for _, decay := range []string{DecayGeometric, DecayLinear} {
		t.Run(decay, func(t *testing.T) {
			s, err := NewSchedule(30, decay, 2.0, 0.02, 100, 5)
			if err != nil {
				t.Fatalf("NewSchedule error: %v", err)
			}

			for tt := 1; tt < 30; tt++ {
				if s.Lambda(tt) > s.Lambda(tt-1) {
					t.Fatalf("Lambda not monotone at t=%d: %v > %v", tt, s.Lambda(tt), s.Lambda(tt-1))
				}
				if s.Radius(tt) > s.Radius(tt-1) {
					t.Fatalf("Radius not monotone at t=%d: %v > %v", tt, s.Radius(tt), s.Radius(tt-1))
				}
				if s.Lambda(tt) < 0.02 || s.Radius(tt) < 5 {
					t.Fatalf("decay undershot floor at t=%d", tt)
				}
			}
		})
	}
}

func TestSchedulePureFunctionOfT(t *testing.T) {
	s, err := NewSchedule(15, DecayGeometric, 1.5, 0.05, 64, 3)
	if err != nil {
		t.Fatalf("NewSchedule error: %v", err)
	}

	// Out-of-order and repeated queries return identical values.
	l7 := s.Lambda(7)
	_ = s.Lambda(12)
	_ = s.Lambda(1)
	if got := s.Lambda(7); got != l7 {
		t.Errorf("Lambda(7) changed between calls: %v vs %v", got, l7)
	}
}

func TestScheduleSingleIteration(t *testing.T) {
	s, err := NewSchedule(1, DecayGeometric, 2.0, 0.02, 100, 5)
	if err != nil {
		t.Fatalf("NewSchedule error: %v", err)
	}
	if got := s.Lambda(0); got != 2.0 {
		t.Errorf("Lambda(0) = %v, want start value", got)
	}
}
