package sim

import (
	"math/rand"
	"slices"

	"github.com/pthm-cable/biome/components"
	"github.com/pthm-cable/biome/systems"
)

// DeathCause says why an agent was removed.
type DeathCause uint8

const (
	Starvation DeathCause = iota
	Predation
)

func (c DeathCause) String() string {
	if c == Predation {
		return "predation"
	}
	return "starvation"
}

// Recorder observes lifecycle events during Advance. Agents passed to it
// are copies; retaining them is safe.
type Recorder interface {
	RecordMeal(eater components.Agent, gain float64)
	RecordBirth(parent, child components.Agent)
	RecordDeath(a components.Agent, cause DeathCause)
}

// Params are the per-call inputs of Advance.
type Params struct {
	MutationRate float64
	Steering     systems.Steering
	Recorder     Recorder // optional
}

// DefaultMutationRate is the per-trait mutation probability used when the
// caller has no configuration of its own.
const DefaultMutationRate = 0.08

// DefaultParams returns smoothed steering and the default mutation rate.
func DefaultParams() Params {
	return Params{
		MutationRate: DefaultMutationRate,
		Steering:     systems.DefaultSteering(),
	}
}

// Advance moves the world forward by dt seconds. All herbivores are
// updated first, then all carnivores, so carnivores see the herbivores'
// post-move positions. Each collection is walked from its last index to
// its first: children appended during a pass are not updated until the
// next call, and removals never skip an unprocessed agent.
//
// Callers should keep dt small (at most 0.25s). Advance never fails.
func Advance(w *World, rng *rand.Rand, dt float64, p Params) {
	w.Time += dt
	advanceHerbivores(w, rng, dt, p)
	advanceCarnivores(w, rng, dt, p)
}

func advanceHerbivores(w *World, rng *rand.Rand, dt float64, p Params) {
	b := w.Bounds()

	for i := len(w.Herbivores) - 1; i >= 0; i-- {
		h := w.Herbivores[i]
		h.Age += dt

		target := systems.NearestPlant(h.Pos, h.Traits.Vision, w.Plants)
		steer(&h, target >= 0, plantPos(w.Plants, target), rng, dt, b, p.Steering)

		if target >= 0 && systems.InReach(h.Pos, w.Plants[target].Pos, systems.PlantEatRadiusSq) {
			h.Energy += systems.PlantEnergy
			w.Plants = slices.Delete(w.Plants, target, target+1)
			if p.Recorder != nil {
				p.Recorder.RecordMeal(h, systems.PlantEnergy)
			}
		}

		w.Herbivores = finishAgent(w, w.Herbivores, i, h, rng, dt, b, p)
	}
}

func advanceCarnivores(w *World, rng *rand.Rand, dt float64, p Params) {
	b := w.Bounds()

	for i := len(w.Carnivores) - 1; i >= 0; i-- {
		c := w.Carnivores[i]
		c.Age += dt

		target := systems.NearestPrey(c.Pos, c.Traits.Vision, w.Herbivores)
		var preyPos components.Position
		if target >= 0 {
			preyPos = w.Herbivores[target].Pos
		}
		steer(&c, target >= 0, preyPos, rng, dt, b, p.Steering)

		if target >= 0 && systems.InReach(c.Pos, w.Herbivores[target].Pos, systems.PreyEatRadiusSq) {
			prey := w.Herbivores[target]
			gain := systems.PreyEnergy(c.Traits.Strength)
			c.Energy += gain
			w.Herbivores = slices.Delete(w.Herbivores, target, target+1)
			if p.Recorder != nil {
				p.Recorder.RecordDeath(prey, Predation)
				p.Recorder.RecordMeal(c, gain)
			}
		}

		w.Carnivores = finishAgent(w, w.Carnivores, i, c, rng, dt, b, p)
	}
}

func plantPos(plants []components.Plant, idx int) components.Position {
	if idx < 0 {
		return components.Position{}
	}
	return plants[idx].Pos
}

// steer heads toward target when one was found, otherwise in a random
// direction, then moves and clamps the agent.
func steer(a *components.Agent, hasTarget bool, target components.Position, rng *rand.Rand, dt float64, b systems.Bounds, s systems.Steering) {
	var dx, dy float64
	if hasTarget {
		dx = target.X - a.Pos.X
		dy = target.Y - a.Pos.Y
	} else {
		dx, dy = systems.RandomDirection(rng)
	}
	a.Vel = s.Apply(a.Vel, dx, dy, a.Traits.Speed, dt)
	a.Pos = systems.Integrate(a.Pos, a.Vel, dt, b)
}

// finishAgent applies metabolism, reproduction and death to the working
// copy a of list[i] and returns the updated list.
func finishAgent(w *World, list []components.Agent, i int, a components.Agent, rng *rand.Rand, dt float64, b systems.Bounds, p Params) []components.Agent {
	systems.UpdateEnergy(&a, dt)

	if systems.CanReproduce(&a) {
		child := systems.Reproduce(&a, w.NextID(), p.MutationRate, b, rng)
		list = append(list, child)
		if p.Recorder != nil {
			p.Recorder.RecordBirth(a, child)
		}
	}

	if systems.IsStarved(&a) {
		if p.Recorder != nil {
			p.Recorder.RecordDeath(a, Starvation)
		}
		return slices.Delete(list, i, i+1)
	}
	list[i] = a
	return list
}
