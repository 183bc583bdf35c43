package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/biome/components"
)

// BoundsPadding keeps moving agents off the exact world edge.
const BoundsPadding = 2.0

// Bounds is the simulation area in world units.
type Bounds struct {
	Width, Height float64
}

// ClampPadded clamps a position to [pad, W-pad] x [pad, H-pad].
func (b Bounds) ClampPadded(p components.Position) components.Position {
	return components.Position{
		X: Clamp(p.X, BoundsPadding, b.Width-BoundsPadding),
		Y: Clamp(p.Y, BoundsPadding, b.Height-BoundsPadding),
	}
}

// Contains reports whether p lies inside the padded area.
func (b Bounds) Contains(p components.Position) bool {
	return p.X >= BoundsPadding && p.X <= b.Width-BoundsPadding &&
		p.Y >= BoundsPadding && p.Y <= b.Height-BoundsPadding
}

// SteeringMode selects how desired velocity is applied.
type SteeringMode uint8

const (
	// SteerSmooth blends toward the desired velocity with factor 1 - e^(-rate·dt).
	SteerSmooth SteeringMode = iota
	// SteerDirect sets velocity to the desired velocity.
	SteerDirect
)

// String returns the config name of the mode.
func (m SteeringMode) String() string {
	if m == SteerDirect {
		return "direct"
	}
	return "smooth"
}

// ParseSteeringMode maps a config string to a mode.
func ParseSteeringMode(s string) (SteeringMode, error) {
	switch s {
	case "", "smooth":
		return SteerSmooth, nil
	case "direct":
		return SteerDirect, nil
	default:
		return SteerSmooth, fmt.Errorf("unknown steering mode %q", s)
	}
}

// DefaultBlendRate is the exponential smoothing rate per second.
const DefaultBlendRate = 8.0

// Steering turns a heading into a new velocity. A non-positive BlendRate
// uses DefaultBlendRate.
type Steering struct {
	Mode      SteeringMode
	BlendRate float64
}

// DefaultSteering returns smoothed steering at the default rate.
func DefaultSteering() Steering {
	return Steering{Mode: SteerSmooth, BlendRate: DefaultBlendRate}
}

// Apply returns the velocity after steering toward direction (dirX, dirY)
// at the given speed. The direction is normalized first.
func (s Steering) Apply(vel components.Velocity, dirX, dirY, speed, dt float64) components.Velocity {
	nx, ny := Normalize(dirX, dirY)
	targetX := nx * speed
	targetY := ny * speed

	if s.Mode == SteerDirect {
		return components.Velocity{X: targetX, Y: targetY}
	}

	rate := s.BlendRate
	if rate <= 0 {
		rate = DefaultBlendRate
	}
	blend := 1 - math.Exp(-rate*dt)
	return components.Velocity{
		X: vel.X + (targetX-vel.X)*blend,
		Y: vel.Y + (targetY-vel.Y)*blend,
	}
}

// Integrate advances a position by velocity·dt and clamps it to the
// padded bounds.
func Integrate(pos components.Position, vel components.Velocity, dt float64, b Bounds) components.Position {
	return b.ClampPadded(components.Position{
		X: pos.X + vel.X*dt,
		Y: pos.Y + vel.Y*dt,
	})
}
