// Package sim holds the ecosystem state and the per-tick update. It does no
// I/O, keeps no history and reads no clock: callers supply dt, randomness
// and parameters on every call.
package sim

import (
	"github.com/pthm-cable/biome/components"
	"github.com/pthm-cable/biome/systems"
)

// World is the authoritative ecosystem snapshot. It is owned by a single
// caller; Advance and the Spawner mutate it in place and keep no reference.
type World struct {
	Width, Height float64

	Plants     []components.Plant
	Herbivores []components.Agent
	Carnivores []components.Agent

	Time float64 // simulated seconds

	nextID uint64
}

// NewWorld returns an empty world whose first entity id is 1.
func NewWorld(width, height float64) *World {
	return &World{
		Width:  width,
		Height: height,
		nextID: 1,
	}
}

// NextID hands out a fresh entity id. Ids are never reused.
func (w *World) NextID() uint64 {
	if w.nextID == 0 {
		w.nextID = 1
	}
	id := w.nextID
	w.nextID++
	return id
}

// PeekNextID returns the id the next spawn or birth will receive.
func (w *World) PeekNextID() uint64 {
	if w.nextID == 0 {
		return 1
	}
	return w.nextID
}

// Bounds returns the world extent.
func (w *World) Bounds() systems.Bounds {
	return systems.Bounds{Width: w.Width, Height: w.Height}
}

// Resize changes the world extent. Agents outside the new padded bounds
// are pulled back in on their next update.
func (w *World) Resize(width, height float64) {
	w.Width = width
	w.Height = height
}

// AgentCount returns the number of living herbivores and carnivores.
func (w *World) AgentCount() int {
	return len(w.Herbivores) + len(w.Carnivores)
}

// FindAgent returns the living agent with the given id, or nil.
func (w *World) FindAgent(id uint64) *components.Agent {
	for i := range w.Herbivores {
		if w.Herbivores[i].ID == id {
			return &w.Herbivores[i]
		}
	}
	for i := range w.Carnivores {
		if w.Carnivores[i].ID == id {
			return &w.Carnivores[i]
		}
	}
	return nil
}
