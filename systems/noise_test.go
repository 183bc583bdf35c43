package systems

import (
	"math/rand"
	"testing"
)

func TestUniformPlacerInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := Bounds{Width: 300, Height: 120}
	for i := 0; i < 1000; i++ {
		p := UniformPlacer{}.Place(rng, b)
		if !b.Contains(p) {
			t.Fatalf("plant at %+v outside padded bounds", p)
		}
	}
}

func TestFertilityPlacer(t *testing.T) {
	f := NewFertilityPlacer(FertilityConfig{Seed: 42, Scale: 150, Octaves: 3, Threshold: 0.4, Attempts: 12})
	rng := rand.New(rand.NewSource(2))
	b := Bounds{Width: 800, Height: 600}

	for x := 0.0; x < 800; x += 37 {
		for y := 0.0; y < 600; y += 41 {
			if v := f.Fertility(x, y); v < 0 || v > 1 {
				t.Fatalf("fertility(%v,%v) = %v outside [0,1]", x, y, v)
			}
		}
	}

	fertile := 0
	const n = 2000
	for i := 0; i < n; i++ {
		p := f.Place(rng, b)
		if !b.Contains(p) {
			t.Fatalf("plant at %+v outside padded bounds", p)
		}
		if f.Fertility(p.X, p.Y) >= 0.4 {
			fertile++
		}
	}
	if fertile < n/2 {
		t.Errorf("only %d/%d plants on fertile ground", fertile, n)
	}
}

func TestFertilityPlacerDeterministic(t *testing.T) {
	cfg := FertilityConfig{Seed: 7, Threshold: 0.5, Attempts: 8}
	a, b := NewFertilityPlacer(cfg), NewFertilityPlacer(cfg)
	ra, rb := rand.New(rand.NewSource(3)), rand.New(rand.NewSource(3))
	bounds := Bounds{Width: 400, Height: 400}
	for i := 0; i < 100; i++ {
		if pa, pb := a.Place(ra, bounds), b.Place(rb, bounds); pa != pb {
			t.Fatalf("placement %d differs: %+v vs %+v", i, pa, pb)
		}
	}
}
