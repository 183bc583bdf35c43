package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/biome/components"
	"github.com/pthm-cable/biome/sim"
	"github.com/pthm-cable/biome/traits"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is a point-in-time dump of the world for offline analysis, taken
// at a tick boundary. Dumps are write-once records; runs never resume from
// them.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Tick    int64 `json:"tick"`

	SimTime     float64 `json:"sim_time"`
	WorldWidth  float64 `json:"world_width"`
	WorldHeight float64 `json:"world_height"`
	NextID      uint64  `json:"next_id"`

	Plants     []PlantState `json:"plants"`
	Herbivores []AgentState `json:"herbivores"`
	Carnivores []AgentState `json:"carnivores"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// PlantState holds one plant.
type PlantState struct {
	ID uint64  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// AgentState holds one agent.
type AgentState struct {
	ID         uint64          `json:"id"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	VelX       float64         `json:"vel_x"`
	VelY       float64         `json:"vel_y"`
	Energy     float64         `json:"energy"`
	Age        float64         `json:"age"`
	GenotypeID string          `json:"genotype_id"`
	Traits     traits.TraitSet `json:"traits"`
}

// TakeSnapshot copies w into a snapshot. It does not modify w.
func TakeSnapshot(w *sim.World, seed, tick int64) *Snapshot {
	s := &Snapshot{
		Version:     SnapshotVersion,
		Seed:        seed,
		Tick:        tick,
		SimTime:     w.Time,
		WorldWidth:  w.Width,
		WorldHeight: w.Height,
		NextID:      w.PeekNextID(),
		Plants:      make([]PlantState, len(w.Plants)),
		Herbivores:  agentStates(w.Herbivores),
		Carnivores:  agentStates(w.Carnivores),
	}
	for i, p := range w.Plants {
		s.Plants[i] = PlantState{ID: p.ID, X: p.Pos.X, Y: p.Pos.Y}
	}
	return s
}

func agentStates(agents []components.Agent) []AgentState {
	out := make([]AgentState, len(agents))
	for i := range agents {
		a := &agents[i]
		out[i] = AgentState{
			ID:         a.ID,
			X:          a.Pos.X,
			Y:          a.Pos.Y,
			VelX:       a.Vel.X,
			VelY:       a.Vel.Y,
			Energy:     a.Energy,
			Age:        a.Age,
			GenotypeID: a.GenotypeID,
			Traits:     a.Traits,
		}
	}
	return out
}

// Validate checks that the dump describes a consistent world: trait sets
// sit on the level tables, genotype ids match their traits, and entity ids
// are unique and below NextID.
func (s *Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}

	seen := make(map[uint64]bool, len(s.Plants)+len(s.Herbivores)+len(s.Carnivores))
	checkID := func(id uint64) error {
		if id == 0 || id >= s.NextID || seen[id] {
			return fmt.Errorf("invalid entity id %d", id)
		}
		seen[id] = true
		return nil
	}

	for _, p := range s.Plants {
		if err := checkID(p.ID); err != nil {
			return err
		}
	}
	for _, group := range []struct {
		sp     components.Species
		states []AgentState
	}{{components.Herbivore, s.Herbivores}, {components.Carnivore, s.Carnivores}} {
		carn := group.sp.IsCarnivore()
		for _, st := range group.states {
			if err := checkID(st.ID); err != nil {
				return err
			}
			if !st.Traits.IsValid(carn) {
				return fmt.Errorf("%s %d has off-table traits", group.sp, st.ID)
			}
			if want := traits.GenotypeID(st.Traits, carn); st.GenotypeID != want {
				return fmt.Errorf("%s %d genotype %q, traits say %q", group.sp, st.ID, st.GenotypeID, want)
			}
		}
	}
	return nil
}

// SaveSnapshot writes a snapshot to dir and returns its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, snapshot.Bookmark.Type)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a dump back for analysis.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}
