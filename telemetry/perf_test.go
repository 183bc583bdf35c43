package telemetry

import (
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestPerfCollector_PhaseShares(t *testing.T) {
	pc := NewPerfCollector(10)
	pc.now = fakeClock(time.Millisecond)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseAdvance)
		pc.StartPhase(PhaseRegrowth)
		pc.StartPhase(PhaseTelemetry)
		pc.EndTick()
	}

	stats := pc.Stats()
	// Each tick spans 4 readings after StartTick: three phases of 1ms each.
	if stats.AvgTickDuration != 4*time.Millisecond {
		t.Errorf("avg tick = %v, want 4ms", stats.AvgTickDuration)
	}
	for _, phase := range []string{PhaseAdvance, PhaseRegrowth, PhaseTelemetry} {
		if pct := stats.PhasePct[phase]; pct != 25 {
			t.Errorf("%s share = %v, want 25", phase, pct)
		}
	}
	if stats.TicksPerSecond != 250 {
		t.Errorf("ticks/s = %v, want 250", stats.TicksPerSecond)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)
	pc.now = fakeClock(time.Microsecond)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseAdvance)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 || stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("unexpected window stats: %+v", stats)
	}
	if pc.sampleCount != 5 {
		t.Errorf("sample count = %d, want 5", pc.sampleCount)
	}
}

func TestPerfCollector_Empty(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.AvgTickDuration != 0 || stats.PhasePct == nil {
		t.Errorf("empty stats = %+v", stats)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseAdvance: 80, PhaseTelemetry: 5},
	}
	row := s.ToCSV(600)
	if row.Tick != 600 || row.AvgTickUS != 1500 || row.AdvancePct != 80 || row.TelemetryPct != 5 || row.RegrowthPct != 0 {
		t.Errorf("ToCSV = %+v", row)
	}
}
