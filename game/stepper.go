package game

import "github.com/pthm-cable/biome/config"

// Stepper turns variable frame deltas into a whole number of fixed-size
// simulation steps. The scaled frame delta is capped so a long stall never
// produces a burst of catch-up work, and at most MaxSteps steps run per
// frame. Time left over stays in the accumulator for the next frame.
type Stepper struct {
	FixedStep   float64
	MaxFrameDT  float64
	MaxSteps    int
	SpeedFactor float64

	acc float64
}

// NewStepper builds a stepper from the time configuration.
func NewStepper(tc config.TimeConfig) *Stepper {
	return &Stepper{
		FixedStep:   tc.FixedStep,
		MaxFrameDT:  tc.MaxFrameDT,
		MaxSteps:    tc.MaxStepsPerFrame,
		SpeedFactor: tc.SpeedFactor,
	}
}

// Frame adds one frame's elapsed wall-clock seconds and returns the number
// of fixed steps to run now. A non-positive speed factor counts as 1.
func (s *Stepper) Frame(frameDT float64) int {
	if s.FixedStep <= 0 {
		return 0
	}
	speed := s.SpeedFactor
	if speed <= 0 {
		speed = 1
	}

	scaled := frameDT * speed
	if s.MaxFrameDT > 0 && scaled > s.MaxFrameDT {
		scaled = s.MaxFrameDT
	}
	if scaled > 0 {
		s.acc += scaled
	}

	steps := 0
	for s.acc >= s.FixedStep && (s.MaxSteps <= 0 || steps < s.MaxSteps) {
		s.acc -= s.FixedStep
		steps++
	}
	return steps
}

// Pending returns the simulated seconds carried to the next frame.
func (s *Stepper) Pending() float64 {
	return s.acc
}

// Reset drops any carried time.
func (s *Stepper) Reset() {
	s.acc = 0
}
